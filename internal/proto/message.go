package proto

// PublishRequest is the body for posting a channel or private message.
type PublishRequest struct {
	User string `json:"user" binding:"required"`
	Text string `json:"text" binding:"required"`
}

// ProfileRequest is the body for storing a user profile.
type ProfileRequest struct {
	Age      string `json:"age" binding:"required"`
	Gender   string `json:"gender" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// MessageResponse echoes the formatted line that was published.
type MessageResponse struct {
	Channel string `json:"channel"`
	Message string `json:"message"`
}

// HistoryResponse lists channel history oldest first.
type HistoryResponse struct {
	Channel  string   `json:"channel"`
	Messages []string `json:"messages"`
}

// ProfileResponse describes a stored user profile.
type ProfileResponse struct {
	Username string `json:"username"`
	Age      string `json:"age"`
	Gender   string `json:"gender"`
	Location string `json:"location"`
}

// WeatherResponse is a weather lookup result.
type WeatherResponse struct {
	City   string `json:"city"`
	Report string `json:"report"`
}

// FactResponse is a random fact.
type FactResponse struct {
	Fact string `json:"fact"`
}

// StreamEvent is written to WebSocket subscribers for every delivery.
type StreamEvent struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
	Private bool   `json:"private"`
}

// Error describes a failed request.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
