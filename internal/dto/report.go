package dto

// PublishRequest puts one day on the shared board.
type PublishRequest struct {
	Date    string `json:"date" validate:"required,len=10"`
	Confirm bool   `json:"confirm"`
}

// UnpublishRequest removes one day from the shared board.
type UnpublishRequest struct {
	Date    string `json:"date" validate:"required,len=10"`
	Confirm bool   `json:"confirm"`
}
