// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package article

// Intent classifies why a save is happening. The snapshot policy hangs
// off this single value instead of a scatter of boolean flags: autosaves
// persist without inflating the version history, everything deliberate
// records a revision.
type Intent int

const (
	// IntentCreate is the first write of a brand-new article. It
	// bypasses locking and starts the version counter at zero; the
	// first revision is recorded by the first deliberate save.
	IntentCreate Intent = iota

	// IntentAutosave is the editor's debounce-timer save. Never
	// snapshots, even when content changed.
	IntentAutosave

	// IntentManualSave is an explicit user-initiated save.
	IntentManualSave

	// IntentPublish moves the article into the published state.
	IntentPublish

	// IntentRestore re-saves the fields of an earlier revision. The
	// restore itself is snapshotted; history is never rewritten.
	IntentRestore
)

func (i Intent) String() string {
	switch i {
	case IntentCreate:
		return "create"
	case IntentAutosave:
		return "autosave"
	case IntentManualSave:
		return "manual_save"
	case IntentPublish:
		return "publish"
	case IntentRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// ParseIntent maps the wire value of a save request to an Intent. Only
// the intents a client may legitimately send parse; create, publish and
// restore flow through their own endpoints. An absent intent is a
// manual save: skipping a snapshot must be asked for, a client that
// omits the field never loses history.
func ParseIntent(s string) (Intent, bool) {
	switch s {
	case "autosave":
		return IntentAutosave, true
	case "manual_save", "":
		return IntentManualSave, true
	default:
		return 0, false
	}
}

// snapshotNeeded is the revision policy: deliberate saves record a
// revision, autosaves and the initial create never do.
func snapshotNeeded(i Intent) bool {
	switch i {
	case IntentManualSave, IntentPublish, IntentRestore:
		return true
	default:
		return false
	}
}
