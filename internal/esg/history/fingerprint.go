package history

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/gowebpki/jcs"

	"github.com/build-flow-labs/esgrate/internal/esg/score"
	"github.com/build-flow-labs/esgrate/rubric"
	"github.com/build-flow-labs/esgrate/schema"
)

var currentRubric = semver.MustParse(rubric.Version)

// Fingerprint hashes the canonical (RFC 8785) JSON form of an answer set.
// encoding/json already sorts map keys; the JCS pass fixes the string
// escaping, which encoding/json varies for HTML characters and U+2028/U+2029,
// so the hash matches any other RFC 8785 implementation over the same answers.
func Fingerprint(answers map[string]string) (string, error) {
	if answers == nil {
		answers = map[string]string{}
	}
	raw, err := json.Marshal(answers)
	if err != nil {
		return "", fmt.Errorf("encoding answers: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalizing answers: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}

// Rescore recomputes a record's scores from its stored answers when the
// record predates the current rubric or carries all-zero scores despite
// having answers. It reports whether r changed.
func Rescore(r *schema.Record) bool {
	stale := true
	if v, err := semver.NewVersion(r.RubricVersion); err == nil {
		stale = v.LessThan(currentRubric)
	}
	empty := r.Scores.IsZero() && len(r.Answers) > 0
	if !stale && !empty {
		return false
	}

	a := score.Score(rubric.Answers(r.Answers))
	r.Scores = schema.Scores{Total: a.Total, E: a.E, S: a.S, G: a.G}
	r.Rating = a.Level
	r.RubricVersion = a.RubricVersion
	return true
}
