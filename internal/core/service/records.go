package service

import (
	"time"

	"github.com/tenderdesk/caseforum/internal/core/domain"
	"github.com/tenderdesk/caseforum/internal/core/ports"
)

const (
	collectionCases    = "cases"
	collectionComments = "comments"
	collectionAdmins   = "admins"
)

func casesCollection() ports.Collection {
	return ports.TopLevel(collectionCases)
}

func commentsCollection(caseID string) ports.Collection {
	return ports.Nested(collectionCases, caseID, collectionComments)
}

func adminsCollection() ports.Collection {
	return ports.TopLevel(collectionAdmins)
}

// Timestamps are persisted as Unix milliseconds.
func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func caseFields(c domain.Case) ports.Fields {
	return ports.Fields{
		"title":     c.Title,
		"stage":     string(c.Stage),
		"summary":   c.Summary,
		"details":   c.Details,
		"ownerUid":  c.OwnerUID,
		"ownerName": c.OwnerName,
		"createdAt": toMillis(c.CreatedAt),
		"updatedAt": toMillis(c.UpdatedAt),
	}
}

func caseFromDocument(d ports.Document) domain.Case {
	return domain.Case{
		ID:        d.ID,
		Title:     stringField(d.Fields, "title"),
		Stage:     domain.Stage(stringField(d.Fields, "stage")),
		Summary:   stringField(d.Fields, "summary"),
		Details:   stringField(d.Fields, "details"),
		OwnerUID:  stringField(d.Fields, "ownerUid"),
		OwnerName: stringField(d.Fields, "ownerName"),
		CreatedAt: fromMillis(int64Field(d.Fields, "createdAt")),
		UpdatedAt: fromMillis(int64Field(d.Fields, "updatedAt")),
	}
}

func commentFields(c domain.Comment) ports.Fields {
	return ports.Fields{
		"text":       c.Text,
		"authorUid":  c.AuthorUID,
		"authorName": c.AuthorName,
		"createdAt":  toMillis(c.CreatedAt),
		"hidden":     c.Hidden,
	}
}

func commentFromDocument(caseID string, d ports.Document) domain.Comment {
	return domain.Comment{
		ID:         d.ID,
		CaseID:     caseID,
		Text:       stringField(d.Fields, "text"),
		AuthorUID:  stringField(d.Fields, "authorUid"),
		AuthorName: stringField(d.Fields, "authorName"),
		CreatedAt:  fromMillis(int64Field(d.Fields, "createdAt")),
		Hidden:     boolField(d.Fields, "hidden"),
	}
}

func stringField(f ports.Fields, key string) string {
	s, _ := f[key].(string)
	return s
}

func boolField(f ports.Fields, key string) bool {
	b, _ := f[key].(bool)
	return b
}

// int64Field accepts the numeric types the store drivers decode into.
func int64Field(f ports.Fields, key string) int64 {
	switch v := f[key].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
