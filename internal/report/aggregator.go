// Package report formats normalized submission outcomes into the uniform
// result tree the presentation layer renders. It never mutates workflow
// state.
package report

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/rms-collector/backend/internal/models"
)

// Group kinds.
const (
	KindError   = "error"
	KindSuccess = "success"
)

// Group is one titled block of the result tree.
type Group struct {
	Kind  string            `json:"kind"`
	Title string            `json:"title"`
	Items map[string]string `json:"items"`
}

// Tree maps a section, slot, or synthetic key to its display group.
type Tree map[string]Group

// Reserved tree keys.
const (
	keyGeneral  = "general"
	keyContact  = "contactDetails"
	keyAccepted = "accepted"
)

// contactFieldTitles translates technical contact field names into
// user-facing labels. admin_code is handled separately because its message
// depends on the selected status.
var contactFieldTitles = map[string]string{
	"status":  "Status",
	"lg_name": "LG Name",
	"email":   "Email",
	"phone":   "Phone Number",
}

// noModelPrefix is the server's rejection for a dataset it has no target
// model for; it is rewritten into a friendlier support message.
const noModelPrefix = "No serializer found for model"

// BuildTree converts one submission result into the display tree. A fully
// successful submission produces no tree at all.
func BuildTree(contact models.ContactDetails, result *models.SubmissionResult) Tree {
	if result == nil || result.Kind == models.OutcomeSuccess {
		return nil
	}

	tree := make(Tree)

	if result.Kind == models.OutcomeTransportError {
		message := result.Message
		if message == "" {
			message = "The server could not be reached. Please try again."
		}
		tree[keyGeneral] = Group{
			Kind:  KindError,
			Title: "Submission Failed",
			Items: map[string]string{"error": message},
		}
		return tree
	}

	if len(result.ContactErrors) > 0 {
		tree[keyContact] = contactGroup(contact, result.ContactErrors)
	}

	for slot, recordErrors := range result.SlotErrors {
		tree[slot] = slotGroup(slot, recordErrors)
	}

	if len(result.SuccessfulSlots) > 0 {
		items := make(map[string]string, len(result.SuccessfulSlots))
		for _, slot := range result.SuccessfulSlots {
			items[SlotLabel(slot)] = "All records accepted"
		}
		tree[keyAccepted] = Group{
			Kind:  KindSuccess,
			Title: "Accepted Datasets",
			Items: items,
		}
	}

	if len(tree) == 0 {
		message := result.Message
		if message == "" {
			message = "The server rejected the submission."
		}
		tree[keyGeneral] = Group{
			Kind:  KindError,
			Title: "Submission Failed",
			Items: map[string]string{"error": message},
		}
	}

	return tree
}

func contactGroup(contact models.ContactDetails, errs map[string]string) Group {
	items := make(map[string]string, len(errs))
	for field, message := range errs {
		switch field {
		case "admin_code":
			if contact.Status == models.StatusKabupaten {
				items["Kabupaten"] = "Select a valid kabupaten"
			} else {
				items["Province"] = "Select a valid province"
			}
		default:
			label := contactFieldTitles[field]
			if label == "" {
				label = field
			}
			items[label] = message
		}
	}
	return Group{Kind: KindError, Title: "Contact Details Errors", Items: items}
}

func slotGroup(slot string, recordErrors []models.RecordError) Group {
	items := make(map[string]string, len(recordErrors))
	for _, re := range recordErrors {
		if strings.HasPrefix(re.Message, noModelPrefix) {
			items["Support"] = fmt.Sprintf("%s is not yet supported. Please contact support.", SlotLabel(slot))
			continue
		}
		label := fmt.Sprintf("Record %d", re.Record)
		if re.Record < 0 {
			label = "File"
		}
		message := re.Message
		if re.Field != "" {
			message = fmt.Sprintf("%s: %s", re.Field, re.Message)
		}
		if prev, ok := items[label]; ok {
			message = prev + "; " + message
		}
		items[label] = message
	}
	return Group{
		Kind:  KindError,
		Title: SlotLabel(slot) + " Errors",
		Items: items,
	}
}

// SlotLabel derives a human-friendly label from a slot name: a known
// technical prefix is stripped and word breaks are inserted at case
// transitions, keeping acronym runs intact ("CODE_AN_UnitCostsPERUnpaved"
// becomes "Unit Costs PER Unpaved").
func SlotLabel(slot string) string {
	name := strings.TrimPrefix(slot, "CODE_AN_")
	name = strings.ReplaceAll(name, "_", " ")

	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// SortedKeys returns the tree's keys in stable display order: contact
// first, slot groups alphabetically, the accepted group last.
func (t Tree) SortedKeys() []string {
	var slots []string
	for key := range t {
		if key != keyContact && key != keyAccepted && key != keyGeneral {
			slots = append(slots, key)
		}
	}
	sort.Strings(slots)

	var keys []string
	if _, ok := t[keyGeneral]; ok {
		keys = append(keys, keyGeneral)
	}
	if _, ok := t[keyContact]; ok {
		keys = append(keys, keyContact)
	}
	keys = append(keys, slots...)
	if _, ok := t[keyAccepted]; ok {
		keys = append(keys, keyAccepted)
	}
	return keys
}
