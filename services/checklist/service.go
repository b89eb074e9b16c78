package checklist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const checklistCollection = "Checklists"

var (
	ErrUnknownList = errors.New("unknown checklist")
	ErrEmptyItem   = errors.New("checklist item must not be empty")
	ErrBadIndex    = errors.New("checklist index out of range")
)

// The stock item sets each list starts with.
var defaultItems = map[string][]string{
	"tournament-day": {
		"Battery charged",
		"Controller firmware updated",
		"VEXnet keys connected/tested",
		"Robot passes size constraints",
		"Field connection tested",
		"Motors secure",
		"No loose wiring",
		"Robot nameplate visible",
		"Extra batteries packed",
		"Spare parts/tools packed",
	},
	"week-before": {
		"Robot driving and autonomous tested",
		"Engineering notebook updated",
		"Engineering notebook uploaded/submitted",
		"Review judging rubrics",
		"Spare parts prepared",
		"Scouting strategy ready",
		"Drive team practice complete",
		"Robot name & team number confirmed",
		"Packing list ready",
	},
}

// Checklist is one named list of items with their checked state.
type Checklist struct {
	ID      string
	Items   []string
	Checked []bool
}

type checklistDoc struct {
	Items   []string `firestore:"Items"`
	Checked []bool   `firestore:"Checked"`
}

// Progress returns how many items are checked and the rounded percentage.
func Progress(c Checklist) (completed, total, percent int) {
	total = len(c.Items)
	for _, checked := range c.Checked {
		if checked {
			completed++
		}
	}
	if total > 0 {
		percent = int(float64(completed)/float64(total)*100 + 0.5)
	}
	return completed, total, percent
}

func defaultChecklist(listID string) (*Checklist, error) {
	items, ok := defaultItems[listID]
	if !ok {
		return nil, ErrUnknownList
	}
	return &Checklist{
		ID:      listID,
		Items:   append([]string(nil), items...),
		Checked: make([]bool, len(items)),
	}, nil
}

func addItem(c *Checklist, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyItem
	}
	c.Items = append(c.Items, text)
	c.Checked = append(c.Checked, false)
	return nil
}

func removeItem(c *Checklist, index int) error {
	if index < 0 || index >= len(c.Items) {
		return ErrBadIndex
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	c.Checked = append(c.Checked[:index], c.Checked[index+1:]...)
	return nil
}

func toggleItem(c *Checklist, index int) error {
	if index < 0 || index >= len(c.Items) {
		return ErrBadIndex
	}
	c.Checked[index] = !c.Checked[index]
	return nil
}

func resetChecked(c *Checklist) {
	c.Checked = make([]bool, len(c.Items))
}

// ChecklistService is the CRUD layer for the preparation checklists. Lists
// live in Firestore, one document per list; a list that has never been
// written reads as its stock item set.
type ChecklistService struct {
	firestoreClient *firestore.Client
}

// NewChecklistService creates a new checklist service.
func NewChecklistService(firestoreClient *firestore.Client) *ChecklistService {
	return &ChecklistService{firestoreClient: firestoreClient}
}

// Get returns the current state of a list.
func (s *ChecklistService) Get(ctx context.Context, listID string) (*Checklist, error) {
	doc, err := s.firestoreClient.Collection(checklistCollection).Doc(listID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return defaultChecklist(listID)
	}
	if err != nil {
		return nil, err
	}
	return docToChecklist(listID, doc)
}

// AddItem appends a new item to a list.
func (s *ChecklistService) AddItem(ctx context.Context, listID, text string) (*Checklist, error) {
	return s.mutate(ctx, listID, func(c *Checklist) error {
		return addItem(c, text)
	})
}

// RemoveItem removes the item at index from a list.
func (s *ChecklistService) RemoveItem(ctx context.Context, listID string, index int) (*Checklist, error) {
	return s.mutate(ctx, listID, func(c *Checklist) error {
		return removeItem(c, index)
	})
}

// Toggle flips the checked state of the item at index.
func (s *ChecklistService) Toggle(ctx context.Context, listID string, index int) (*Checklist, error) {
	return s.mutate(ctx, listID, func(c *Checklist) error {
		return toggleItem(c, index)
	})
}

// Reset unchecks every item in a list, keeping the items themselves.
func (s *ChecklistService) Reset(ctx context.Context, listID string) (*Checklist, error) {
	return s.mutate(ctx, listID, func(c *Checklist) error {
		resetChecked(c)
		return nil
	})
}

// mutate applies fn to the current list state inside a transaction so
// concurrent edits do not lose items.
func (s *ChecklistService) mutate(ctx context.Context, listID string, fn func(*Checklist) error) (*Checklist, error) {
	docRef := s.firestoreClient.Collection(checklistCollection).Doc(listID)

	var result *Checklist
	err := s.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var current *Checklist
		doc, err := tx.Get(docRef)
		switch {
		case status.Code(err) == codes.NotFound:
			current, err = defaultChecklist(listID)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			current, err = docToChecklist(listID, doc)
			if err != nil {
				return err
			}
		}

		if err := fn(current); err != nil {
			return err
		}
		result = current
		return tx.Set(docRef, checklistDoc{
			Items:   current.Items,
			Checked: current.Checked,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func docToChecklist(listID string, doc *firestore.DocumentSnapshot) (*Checklist, error) {
	var d checklistDoc
	if err := doc.DataTo(&d); err != nil {
		// If this fails, we have an inconsistency error as we control both the data written to
		// Firestore and the shape of our checklist struct.
		return nil, fmt.Errorf(
			"consistency error. Converting %+v to internal checklist struct failed: %w",
			doc,
			err,
		)
	}
	c := &Checklist{ID: listID, Items: d.Items, Checked: d.Checked}
	// Older documents may miss checked entries for newly added items.
	for len(c.Checked) < len(c.Items) {
		c.Checked = append(c.Checked, false)
	}
	return c, nil
}
