package model

// Genre is one of the fixed catalog genres.
type Genre string

const (
	GenreAction     Genre = "action"
	GenreAdventure  Genre = "adventure"
	GenreRPG        Genre = "rpg"
	GenreStrategy   Genre = "strategy"
	GenreSimulation Genre = "simulation"
	GenreSports     Genre = "sports"
	GenreRacing     Genre = "racing"
	GenrePuzzle     Genre = "puzzle"
	GenreHorror     Genre = "horror"
	GenreShooter    Genre = "shooter"
	GenrePlatformer Genre = "platformer"
	GenreIndie      Genre = "indie"
	GenreMMO        Genre = "mmo"
	GenreCasual     Genre = "casual"
	GenreOther      Genre = "other"
)

var genreDisplayNames = map[Genre]string{
	GenreAction:     "Action",
	GenreAdventure:  "Adventure",
	GenreRPG:        "RPG",
	GenreStrategy:   "Strategy",
	GenreSimulation: "Simulation",
	GenreSports:     "Sports",
	GenreRacing:     "Racing",
	GenrePuzzle:     "Puzzle",
	GenreHorror:     "Horror",
	GenreShooter:    "Shooter",
	GenrePlatformer: "Platformer",
	GenreIndie:      "Indie",
	GenreMMO:        "MMO",
	GenreCasual:     "Casual",
	GenreOther:      "Other",
}

// Genres lists every genre in display order.
func Genres() []Genre {
	return []Genre{
		GenreAction, GenreAdventure, GenreRPG, GenreStrategy, GenreSimulation,
		GenreSports, GenreRacing, GenrePuzzle, GenreHorror, GenreShooter,
		GenrePlatformer, GenreIndie, GenreMMO, GenreCasual, GenreOther,
	}
}

// Valid returns true if g is one of the catalog genres.
func (g Genre) Valid() bool {
	_, ok := genreDisplayNames[g]
	return ok
}

// DisplayName returns the human readable genre label.
func (g Genre) DisplayName() string {
	if name, ok := genreDisplayNames[g]; ok {
		return name
	}
	return string(g)
}
