package handlers

// WeatherRequest is the /weather query string.
type WeatherRequest struct {
	City string `form:"city" json:"city" validate:"required"`
}

// ErrorResponse is the JSON body of every /weather error.
type ErrorResponse struct {
	Error string `json:"error"`
}

const (
	helloBody            = "hello world!"
	methodNotAllowedBody = "Method Not Allowed"
	weatherFailedMessage = "Failed to fetch weather data"
)
