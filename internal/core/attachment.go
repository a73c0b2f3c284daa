package core

import (
	"fmt"
	"regexp"
	"strings"
)

// Attachment references ride inside the note column of the persisted ledger
// as a "(img:REF)" tag, which is how existing sheets already store them. In
// memory the reference is the structured Entry.Attachment field; the tag only
// exists on the wire.
var attachmentTag = regexp.MustCompile(`\(img:(.*?)\)`)

// SplitNote separates a raw note cell into the display note and the
// attachment reference, if one is embedded.
func SplitNote(raw string) (note, ref string) {
	m := attachmentTag.FindStringSubmatch(raw)
	if m != nil {
		ref = strings.TrimSpace(m[1])
	}
	note = strings.TrimSpace(attachmentTag.ReplaceAllString(raw, ""))
	return note, ref
}

// JoinNote embeds the attachment reference back into the note for
// persistence. Round-trips with SplitNote.
func JoinNote(note, ref string) string {
	if ref == "" {
		return note
	}
	if note == "" {
		return fmt.Sprintf("(img:%s)", ref)
	}
	return fmt.Sprintf("%s (img:%s)", note, ref)
}
