package game

// Game is a catalogue entry served by the /Games routes.
type Game struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Draft is a validated game that has not been assigned an identifier yet.
type Draft struct {
	Name  string `json:"name" validate:"required,min=2"`
	Image string `json:"image" validate:"required,weburl"`
}

// WithID turns the draft into a storable game.
func (d Draft) WithID(id string) Game {
	return Game{ID: id, Name: d.Name, Image: d.Image}
}
