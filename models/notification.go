package models

import "time"

// AdminNotification is an entry of the admin dashboard feed.
type AdminNotification struct {
	ID        string    `json:"id" bson:"id"`
	Message   string    `json:"message" bson:"message"`
	Timestamp string    `json:"timestamp" bson:"timestamp"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// PushData is the data block the admin service worker reads on click.
type PushData struct {
	URL     string   `json:"url"`
	Booking *Booking `json:"booking"`
}

// PushPayload is what gets delivered to the admin devices.
type PushPayload struct {
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Data  PushData `json:"data"`
}
