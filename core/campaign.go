package core

import (
	"encoding/json"
	"errors"
	"time"
)

// CampaignState is the parent container's lifecycle, spec.md §4.5.
type CampaignState int

const (
	CampaignDraft CampaignState = iota
	CampaignPublished
	CampaignActive
	CampaignCompleted
	CampaignArchived
)

func (s CampaignState) String() string {
	switch s {
	case CampaignDraft:
		return "Draft"
	case CampaignPublished:
		return "Published"
	case CampaignActive:
		return "Active"
	case CampaignCompleted:
		return "Completed"
	case CampaignArchived:
		return "Archived"
	default:
		return "Unknown"
	}
}

// Campaign is the parent container owning a set of Tasks (spec.md §3).
type Campaign struct {
	Creator     Address       `json:"creator"`
	CampaignID  string        `json:"campaign_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	MetadataURI string        `json:"metadata_uri"`
	Category    string        `json:"category"`
	State       CampaignState `json:"state"`
	TasksCount  uint32        `json:"tasks_count"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
}

// PDA returns this campaign's opaque storage handle.
func (c *Campaign) PDA() []byte {
	return CampaignPDA(c.Creator, c.CampaignID)
}

func validateCampaignFields(title, description, metadataURI, category, campaignID string) error {
	if !ValidID(campaignID, IDMaxLen) {
		return ErrInvalidCampaignID
	}
	if len(title) == 0 || len(title) > TitleMaxLen {
		return ErrInvalidTitle
	}
	if len(description) > DescriptionMaxLen {
		return ErrInvalidDescription
	}
	if len(metadataURI) > URIMaxLen {
		return ErrInvalidMetadataURI
	}
	if len(category) > CategoryMaxLen {
		return ErrInvalidCategory
	}
	return nil
}

// CreateCampaign creates a Campaign in Draft, owned by ctx.Caller.
func CreateCampaign(ctx *Context, campaignID, title, description, metadataURI, category string) (*Campaign, error) {
	if err := validateCampaignFields(title, description, metadataURI, category, campaignID); err != nil {
		return nil, err
	}
	c := &Campaign{
		Creator:     ctx.Caller,
		CampaignID:  campaignID,
		Title:       title,
		Description: description,
		MetadataURI: metadataURI,
		Category:    category,
		State:       CampaignDraft,
		CreatedAt:   ctx.Now,
		UpdatedAt:   ctx.Now,
	}
	key := campaignKey(c.Creator, c.CampaignID)
	if _, err := CurrentStore().Get(key); err == nil {
		return nil, errors.New("campaign already exists")
	}
	if err := putCampaign(c); err != nil {
		return nil, err
	}
	Broadcast(TopicCampaignCreated, c)
	return c, nil
}

// UpdateCampaign edits title/description/metadataURI/category. Legal only
// while the Campaign is in Draft (spec.md §3: "editable only in Draft").
func UpdateCampaign(ctx *Context, creator Address, campaignID, title, description, metadataURI, category string) (*Campaign, error) {
	c, err := GetCampaign(creator, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Creator != ctx.Caller {
		return nil, ErrUnauthorizedCreator
	}
	if c.State != CampaignDraft {
		return nil, ErrNotEditable
	}
	if err := validateCampaignFields(title, description, metadataURI, category, campaignID); err != nil {
		return nil, err
	}
	c.Title, c.Description, c.MetadataURI, c.Category = title, description, metadataURI, category
	c.UpdatedAt = ctx.Now
	if err := putCampaign(c); err != nil {
		return nil, err
	}
	Broadcast(TopicCampaignUpdated, c)
	return c, nil
}

// PublishCampaign transitions Draft -> Published. Creator-gated.
func PublishCampaign(ctx *Context, creator Address, campaignID string) (*Campaign, error) {
	c, err := GetCampaign(creator, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Creator != ctx.Caller {
		return nil, ErrUnauthorizedCreator
	}
	if c.State != CampaignDraft {
		return nil, ErrInvalidStateTransition
	}
	before := c.State
	c.State = CampaignPublished
	now := ctx.Now
	c.PublishedAt = &now
	c.UpdatedAt = ctx.Now
	if err := putCampaign(c); err != nil {
		return nil, err
	}
	Broadcast(TopicCampaignPublished, c)
	Broadcast(TopicCampaignStateChanged, map[string]string{"campaign_id": campaignID, "from": before.String(), "to": c.State.String()})
	return c, nil
}

// attachTask is called by CreateTask when a Task is added to this Campaign.
// It auto-transitions Published -> Active on the first attachment and
// checked-increments TasksCount; overflow is fatal per spec.md §4.5.
func attachTask(ctx *Context, c *Campaign) error {
	if c.State != CampaignPublished && c.State != CampaignActive {
		return ErrCannotAddTasks
	}
	if c.TasksCount == ^uint32(0) {
		panic("tasks_count overflow")
	}
	before := c.State
	c.TasksCount++
	if c.State == CampaignPublished {
		c.State = CampaignActive
	}
	c.UpdatedAt = ctx.Now
	if err := putCampaign(c); err != nil {
		return err
	}
	if before != c.State {
		Broadcast(TopicCampaignStateChanged, map[string]string{"campaign_id": c.CampaignID, "from": before.String(), "to": c.State.String()})
	}
	return nil
}

// MaybeCompleteCampaign transitions Active -> Completed once every owned
// task has reached PaidOut or Refunded. Called by task-terminal handlers;
// a no-op if tasks remain outstanding.
func MaybeCompleteCampaign(ctx *Context, c *Campaign, tasks []*Task) error {
	if c.State != CampaignActive {
		return nil
	}
	for _, t := range tasks {
		if t.State != TaskPaidOut && t.State != TaskRefunded {
			return nil
		}
	}
	c.State = CampaignCompleted
	c.UpdatedAt = ctx.Now
	if err := putCampaign(c); err != nil {
		return err
	}
	Broadcast(TopicCampaignStateChanged, map[string]string{"campaign_id": c.CampaignID, "from": "Active", "to": "Completed"})
	return nil
}

// ArchiveCampaign transitions any non-Archived state to Archived.
// Creator-gated; forbidden while any owned task is non-terminal.
func ArchiveCampaign(ctx *Context, creator Address, campaignID string, tasks []*Task) (*Campaign, error) {
	c, err := GetCampaign(creator, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Creator != ctx.Caller {
		return nil, ErrUnauthorizedCreator
	}
	if c.State == CampaignArchived {
		return nil, ErrInvalidStateTransition
	}
	for _, t := range tasks {
		if t.State != TaskPaidOut && t.State != TaskRefunded {
			return nil, ErrHasActiveTasks
		}
	}
	before := c.State
	c.State = CampaignArchived
	c.UpdatedAt = ctx.Now
	if err := putCampaign(c); err != nil {
		return nil, err
	}
	Broadcast(TopicCampaignArchived, c)
	Broadcast(TopicCampaignStateChanged, map[string]string{"campaign_id": campaignID, "from": before.String(), "to": "Archived"})
	return c, nil
}

// GetCampaign looks up a Campaign by its (creator, campaign_id) key.
func GetCampaign(creator Address, campaignID string) (*Campaign, error) {
	raw, err := getOrNotFound(campaignKey(creator, campaignID))
	if err != nil {
		return nil, err
	}
	var c Campaign
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func putCampaign(c *Campaign) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return CurrentStore().Set(campaignKey(c.Creator, c.CampaignID), raw)
}
