package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestCanChangeUsername(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name       string
		lastChange *time.Time
		want       bool
	}{
		{"never changed", nil, true},
		{"changed yesterday", at(24 * time.Hour), false},
		{"changed exactly 30 days ago", at(UsernameChangeCooldown), false},
		{"changed 30 days and a second ago", at(UsernameChangeCooldown + time.Second), true},
		{"changed a year ago", at(365 * 24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{LastNameChange: tt.lastChange}
			if got := u.CanChangeUsername(now); got != tt.want {
				t.Errorf("CanChangeUsername() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBanState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		user    User
		want    BanState
		expired bool
	}{
		{"not banned", User{}, BanStateActive, false},
		{"temporary", User{IsBanned: true, BanExpiresAt: &future}, BanStateTemporary, false},
		{"permanent", User{IsBanned: true}, BanStatePermanent, false},
		{"expired", User{IsBanned: true, BanExpiresAt: &past}, BanStateActive, true},
		{"stale expiry without flag", User{BanExpiresAt: &past}, BanStateActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.BanState(now); got != tt.want {
				t.Errorf("BanState() = %s, want %s", got, tt.want)
			}
			if got := tt.user.BanExpired(now); got != tt.expired {
				t.Errorf("BanExpired() = %v, want %v", got, tt.expired)
			}
		})
	}
}

func TestRoleOrder(t *testing.T) {
	if !(RoleUser < RoleModerator && RoleModerator < RoleAdmin) {
		t.Fatal("roles are not ordered user < moderator < admin")
	}
	if RoleModerator.AtLeast(RoleAdmin) {
		t.Error("moderator ranks as admin")
	}
	if !RoleAdmin.AtLeast(RoleModerator) {
		t.Error("admin does not rank as moderator")
	}
	if Role(7).AtLeast(RoleUser) {
		t.Error("invalid role ranks as user")
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleModerator, RoleAdmin} {
		got, err := ParseRole(r.String())
		if err != nil || got != r {
			t.Errorf("ParseRole(%q) = %v, %v", r.String(), got, err)
		}
	}
	if _, err := ParseRole("Admin"); err == nil {
		t.Error("ParseRole accepted a differently cased name")
	}
	if _, err := ParseRole("superuser"); err == nil {
		t.Error("ParseRole accepted an unknown role")
	}
}

func TestRoleStorage(t *testing.T) {
	v, err := RoleModerator.Value()
	if err != nil || v != "moderator" {
		t.Fatalf("Value() = %v, %v", v, err)
	}

	var r Role
	if err := r.Scan([]byte("admin")); err != nil || r != RoleAdmin {
		t.Errorf("Scan([]byte) = %v, %v", r, err)
	}
	if err := r.Scan("bogus"); err == nil {
		t.Error("Scan accepted an unknown role")
	}
	if _, err := Role(-1).Value(); err == nil {
		t.Error("Value accepted an invalid role")
	}
}

func TestRoleJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Role Role `json:"role"`
	}{RoleAdmin})
	if err != nil || string(data) != `{"role":"admin"}` {
		t.Fatalf("Marshal = %s, %v", data, err)
	}

	var out struct {
		Role Role `json:"role"`
	}
	if err := json.Unmarshal([]byte(`{"role":"moderator"}`), &out); err != nil || out.Role != RoleModerator {
		t.Errorf("Unmarshal = %v, %v", out.Role, err)
	}
}

func TestGenres(t *testing.T) {
	if len(Genres()) != 15 {
		t.Fatalf("got %d genres, want 15", len(Genres()))
	}
	for _, g := range Genres() {
		if !g.Valid() {
			t.Errorf("%s not valid", g)
		}
	}
	if Genre("visual-novel").Valid() {
		t.Error("unknown genre accepted")
	}
	if GenreRPG.DisplayName() != "RPG" || GenreMMO.DisplayName() != "MMO" || GenreIndie.DisplayName() != "Indie" {
		t.Error("unexpected display names")
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 2, 12, 26)
	if p.Pages != 3 || !p.HasPrev || !p.HasNext {
		t.Errorf("unexpected page metadata: %+v", p)
	}

	empty := NewPage[int](nil, 1, 12, 0)
	if empty.Items == nil || empty.Pages != 0 || empty.HasNext || empty.HasPrev {
		t.Errorf("unexpected empty page: %+v", empty)
	}
}
