package storage

import (
	"encoding/json"

	"github.com/Tiliavir/taskboard/internal/model"
)

// Placeholders written for identities that older releases did not record.
const (
	UnknownHistoricalUser      = "<unknown-historical-user>"
	UnknownHistoricalPublisher = "<unknown-historical-publisher>"
)

// legacyClaimantKey is the single claimant field used before the claimant
// was split into accepted_by_id and accepted_by_name.
const legacyClaimantKey = "accepted_by"

// taskIDKeys are the task members holding identifiers, which older
// releases sometimes wrote as JSON numbers.
var taskIDKeys = []string{"task_id", "publisher_id", "accepted_by_id"}

// Migrate upgrades raw task records in place and reports whether any record
// changed. Running it again on its own output changes nothing.
func Migrate(records []map[string]json.RawMessage) bool {
	changed := false
	for _, r := range records {
		if r == nil {
			continue
		}
		if legacy, ok := r[legacyClaimantKey]; ok {
			if _, split := r["accepted_by_id"]; !split {
				r["accepted_by_id"] = legacy
				if isNull(legacy) {
					r["accepted_by_name"] = json.RawMessage("null")
				} else {
					r["accepted_by_name"] = quote(UnknownHistoricalUser)
				}
				delete(r, legacyClaimantKey)
				changed = true
			}
		}
		if _, ok := r["publisher_name"]; !ok {
			r["publisher_name"] = quote(UnknownHistoricalPublisher)
			changed = true
		}
		if status, ok := r["status"]; !ok || isNull(status) || string(status) == `""` {
			r["status"] = quote(string(model.StatusPending))
			changed = true
		}
		for _, key := range taskIDKeys {
			if stringify(r, key) {
				changed = true
			}
		}
	}
	return changed
}

// MigratePoints upgrades raw point balance records in place and reports
// whether any record changed.
func MigratePoints(records []map[string]json.RawMessage) bool {
	changed := false
	for _, r := range records {
		if r != nil && stringify(r, "user_id") {
			changed = true
		}
	}
	return changed
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// stringify replaces a numeric r[key] with its string form and reports
// whether it did.
func stringify(r map[string]json.RawMessage, key string) bool {
	raw, ok := r[key]
	if !ok || isNull(raw) || raw[0] == '"' {
		return false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	r[key] = quote(n.String())
	return true
}

func quote(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
