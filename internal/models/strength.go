package models

// Rating is the overall strength category of a password.
type Rating string

const (
	RatingWeak     Rating = "Weak"
	RatingModerate Rating = "Moderate"
	RatingStrong   Rating = "Strong"
)

type StrengthResult struct {
	Score    int      `json:"score"`
	Feedback []string `json:"feedback"`
	Entropy  float64  `json:"entropy"`
	Rating   Rating   `json:"rating"`
}
