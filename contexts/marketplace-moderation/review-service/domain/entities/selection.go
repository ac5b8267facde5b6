package entities

import (
	"sort"
	"strings"
)

// Selection is the set of target ids an administrator has checked for a bulk
// action. It is a value object owned by the caller: every operation returns a
// new Selection and never mutates the receiver.
type Selection struct {
	ids []string
}

func NewSelection(ids ...string) Selection {
	return Selection{ids: dedupeIDs(ids)}
}

func (s Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

func (s Selection) Len() int {
	return len(s.ids)
}

func (s Selection) Contains(id string) bool {
	id = strings.TrimSpace(id)
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Toggle flips membership of a single id.
func (s Selection) Toggle(id string) Selection {
	id = strings.TrimSpace(id)
	if id == "" {
		return NewSelection(s.ids...)
	}
	if !s.Contains(id) {
		return NewSelection(append(s.IDs(), id)...)
	}
	kept := make([]string, 0, len(s.ids))
	for _, existing := range s.ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return NewSelection(kept...)
}

// ToggleAllPending implements select-all over the visible set: it selects
// exactly the pending ids, and if the selection already equals that full
// pending set it clears instead.
func (s Selection) ToggleAllPending(pendingIDs []string) Selection {
	pending := NewSelection(pendingIDs...)
	if s.Equal(pending) {
		return Selection{}
	}
	return pending
}

func (s Selection) Equal(other Selection) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	left := append([]string(nil), s.ids...)
	right := append([]string(nil), other.ids...)
	sort.Strings(left)
	sort.Strings(right)
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	items := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		items = append(items, id)
	}
	return items
}
