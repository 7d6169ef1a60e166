package match

// Player identity is the opaque connection id handed out by the transport.
// Join order is turn order, so the roster slice is never reordered.
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	IsHost   bool   `json:"is_host"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is relay-only canvas data. It never outlives the room.
type Stroke struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
}
