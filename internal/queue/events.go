package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the activity stream
const (
	EventPostCreated   = "post_created"
	EventPostDeleted   = "post_deleted"
	EventPostLiked     = "post_liked"
	EventPostCommented = "post_commented"
	EventTaskCreated   = "task_created"
)

// StreamActivity is the Redis stream all activity events are appended to.
const StreamActivity = "stream:activity"

// ActivityEvent represents an event published to the activity stream.
type ActivityEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred
	ActorID   int64  `json:"actor_id,omitempty"`

	PostID    int64 `json:"post_id,omitempty"`
	CommentID int64 `json:"comment_id,omitempty"`
	TaskID    int64 `json:"task_id,omitempty"`

	// Owner of the post/task the event is about, when it differs from the actor.
	OwnerID int64 `json:"owner_id,omitempty"`
}

func newEvent(eventType string, actorID int64) ActivityEvent {
	return ActivityEvent{Type: eventType, Timestamp: time.Now().Unix(), ActorID: actorID}
}

func NewPostCreatedEvent(postID, authorID int64) ActivityEvent {
	e := newEvent(EventPostCreated, authorID)
	e.PostID = postID
	return e
}

func NewPostDeletedEvent(postID, authorID int64) ActivityEvent {
	e := newEvent(EventPostDeleted, authorID)
	e.PostID = postID
	return e
}

// NewPostLikedEvent records userID liking a post owned by ownerID (0 for authorless posts).
func NewPostLikedEvent(postID, userID, ownerID int64) ActivityEvent {
	e := newEvent(EventPostLiked, userID)
	e.PostID = postID
	e.OwnerID = ownerID
	return e
}

func NewPostCommentedEvent(postID, commentID, authorID, ownerID int64) ActivityEvent {
	e := newEvent(EventPostCommented, authorID)
	e.PostID = postID
	e.CommentID = commentID
	e.OwnerID = ownerID
	return e
}

// NewTaskCreatedEvent records creatorID creating a task assigned to assigneeID.
func NewTaskCreatedEvent(taskID, creatorID, assigneeID int64) ActivityEvent {
	e := newEvent(EventTaskCreated, creatorID)
	e.TaskID = taskID
	e.OwnerID = assigneeID
	return e
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e ActivityEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseActivityEvent parses an ActivityEvent from Redis stream message values.
func ParseActivityEvent(values map[string]interface{}) (ActivityEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return ActivityEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event ActivityEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return ActivityEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
