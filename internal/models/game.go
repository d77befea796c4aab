package models

import "time"

// Genre is the primary genre of a game.
type Genre string

const (
	GenreRPG             Genre = "RPG"
	GenreAdventure       Genre = "Adventure"
	GenrePuzzle          Genre = "Puzzle"
	GenreAction          Genre = "Action"
	GenreStrategy        Genre = "Strategy"
	GenreSimulation      Genre = "Simulation"
	GenreSports          Genre = "Sports"
	GenreRacing          Genre = "Racing"
	GenreHorror          Genre = "Horror"
	GenreFPS             Genre = "FPS"
	GenreMMO             Genre = "MMO"
	GenreVisualNovel     Genre = "Visual Novel"
	GenreMetroidvania    Genre = "Metroidvania"
	GenreRoguelike       Genre = "Roguelike"
	GenreTacticalShooter Genre = "Tactical Shooter"
	GenreSurvival        Genre = "Survival"
	GenreShooter         Genre = "Shooter"
	GenreSandbox         Genre = "Sandbox"
)

var genreLabels = map[Genre]string{
	GenreFPS: "First-Person Shooter",
	GenreMMO: "Massively Multiplayer Online",
}

// Genres lists every supported genre in display order.
var Genres = []Genre{
	GenreRPG, GenreAdventure, GenrePuzzle, GenreAction, GenreStrategy, GenreSimulation,
	GenreSports, GenreRacing, GenreHorror, GenreFPS, GenreMMO, GenreVisualNovel,
	GenreMetroidvania, GenreRoguelike, GenreTacticalShooter, GenreSurvival, GenreShooter, GenreSandbox,
}

// Display returns the human readable label of the genre.
func (g Genre) Display() string {
	if label, ok := genreLabels[g]; ok {
		return label
	}
	return string(g)
}

// Valid reports whether g is one of the supported genres.
func (g Genre) Valid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// Platform is the platform a game is released on.
type Platform string

const (
	PlatformPC             Platform = "PC"
	PlatformPlayStation    Platform = "PlayStation"
	PlatformXbox           Platform = "Xbox"
	PlatformNintendoSwitch Platform = "Nintendo Switch"
	PlatformMobile         Platform = "Mobile"
	PlatformMulti          Platform = "Multiplatform"
)

var Platforms = []Platform{
	PlatformPC, PlatformPlayStation, PlatformXbox, PlatformNintendoSwitch, PlatformMobile, PlatformMulti,
}

func (p Platform) Valid() bool {
	for _, known := range Platforms {
		if p == known {
			return true
		}
	}
	return false
}

// Game represents a game in the catalog.
type Game struct {
	ID          uint      `gorm:"primaryKey"`
	Title       string    `gorm:"size:200;not null;index"`
	Genre       Genre     `gorm:"size:50;not null;index"`
	Developer   string    `gorm:"size:200;not null"`
	ReleaseYear int       `gorm:"not null"`
	Price       int       `gorm:"not null;default:0"`
	Platform    Platform  `gorm:"size:50;not null"`
	Rating      int       `gorm:"not null;default:0;index"`
	Description string    `gorm:"type:text"`
	ImageURL    string    `gorm:"size:512"`
	ExternalURL string    `gorm:"size:512"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
	Tags        []*Tag `gorm:"many2many:game_tags;constraint:OnDelete:CASCADE;"`
}

// TagNames returns the names of the game's tags in their loaded order.
func (g Game) TagNames() []string {
	names := make([]string, 0, len(g.Tags))
	for _, tag := range g.Tags {
		if tag != nil {
			names = append(names, tag.Name)
		}
	}
	return names
}
