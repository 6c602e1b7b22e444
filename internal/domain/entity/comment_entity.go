package entity

import "time"

type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	PostID    string    `json:"postID" bson:"postID"`
	Sender    string    `json:"sender" bson:"sender"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
