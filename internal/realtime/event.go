package realtime

import (
	"github.com/google/uuid"
)

// EventType names a board change pushed to connected viewers.
type EventType string

const (
	EventBoardUpdated         EventType = "board_updated"
	EventBoardDeleted         EventType = "board_deleted"
	EventMemberAdded          EventType = "member_added"
	EventMemberRemoved        EventType = "member_removed"
	EventListCreated          EventType = "list_created"
	EventListUpdated          EventType = "list_updated"
	EventListDeleted          EventType = "list_deleted"
	EventListsReordered       EventType = "lists_reordered"
	EventCardCreated          EventType = "card_created"
	EventCardUpdated          EventType = "card_updated"
	EventCardDeleted          EventType = "card_deleted"
	EventCardMoved            EventType = "card_moved"
	EventCardsReordered       EventType = "cards_reordered"
	EventLabelAddedToCard     EventType = "label_added_to_card"
	EventLabelRemovedFromCard EventType = "label_removed_from_card"
	EventLabelUpdated         EventType = "label_updated"
	EventLabelDeleted         EventType = "label_deleted"
	EventCardAssigneeAdded    EventType = "card_assignee_added"
	EventCardAssigneeRemoved  EventType = "card_assignee_removed"
	EventCommentCreated       EventType = "comment_created"
	EventCommentUpdated       EventType = "comment_updated"
	EventCommentDeleted       EventType = "comment_deleted"
	EventAttachmentAdded      EventType = "attachment_added"
	EventAttachmentDeleted    EventType = "attachment_deleted"
)

// Event is the JSON object sent to board subscribers. Only the ids relevant to
// the change are set.
type Event struct {
	Type         EventType `json:"type"`
	BoardID      string    `json:"board_id,omitempty"`
	ListID       string    `json:"list_id,omitempty"`
	CardID       string    `json:"card_id,omitempty"`
	LabelID      string    `json:"label_id,omitempty"`
	CommentID    string    `json:"comment_id,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	AttachmentID string    `json:"attachment_id,omitempty"`
	NewListID    string    `json:"new_list_id,omitempty"`
	NewPosition  *int      `json:"new_position,omitempty"`
}

func NewEvent(eventType EventType, boardID uuid.UUID) Event {
	return Event{Type: eventType, BoardID: boardID.String()}
}

func (e Event) WithList(id uuid.UUID) Event {
	e.ListID = id.String()
	return e
}

func (e Event) WithCard(id uuid.UUID) Event {
	e.CardID = id.String()
	return e
}

func (e Event) WithLabel(id uuid.UUID) Event {
	e.LabelID = id.String()
	return e
}

func (e Event) WithComment(id uuid.UUID) Event {
	e.CommentID = id.String()
	return e
}

func (e Event) WithUser(id uuid.UUID) Event {
	e.UserID = id.String()
	return e
}

func (e Event) WithAttachment(id uuid.UUID) Event {
	e.AttachmentID = id.String()
	return e
}

// WithMove records the destination of a card move.
func (e Event) WithMove(listID uuid.UUID, position int) Event {
	e.NewListID = listID.String()
	e.NewPosition = &position
	return e
}
