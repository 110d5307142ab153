// Package credential mints the boarding credentials carried by reservations.
//
// A credential is "BRT1." followed by the unpadded base64url encoding of a
// small JSON document naming the departure, user and seat, the issue time
// and a random nonce. The reservation table stays authoritative; the
// payload only lets a scanner show who a credential belongs to.
package credential

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Domenick1991/busreservation/internal/clock"
	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/google/uuid"
)

const (
	prefix = "BRT1."
	// ValidityMargin is how long before departure a credential stops being on time.
	ValidityMargin = time.Hour
)

var ErrMalformed = errors.New("malformed credential")

// Payload is the decoded content of a credential.
type Payload struct {
	DepartureID int64     `json:"d"`
	UserID      int64     `json:"u"`
	SeatNumber  int       `json:"s"`
	IssuedAt    int64     `json:"t"`
	Nonce       uuid.UUID `json:"n"`
}

func (p Payload) IssuedTime() time.Time {
	return time.UnixMilli(p.IssuedAt).UTC()
}

type Issuer struct {
	clock clock.Clock
}

func NewIssuer(c clock.Clock) *Issuer {
	if c == nil {
		c = clock.Real()
	}
	return &Issuer{clock: c}
}

// Issue returns a fresh credential for the seat and the instant after which
// presenting it is late.
func (i *Issuer) Issue(dep *domain.Departure, userID int64, seat int) (string, time.Time, error) {
	payload := Payload{
		DepartureID: dep.ID,
		UserID:      userID,
		SeatNumber:  seat,
		IssuedAt:    i.clock.Now().UnixMilli(),
		Nonce:       uuid.New(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", time.Time{}, err
	}
	return prefix + base64.RawURLEncoding.EncodeToString(data), ValidUntil(dep.DepartureTime), nil
}

// ValidUntil is the end of the on-time window for a departure.
func ValidUntil(departure time.Time) time.Time {
	return departure.Add(-ValidityMargin)
}

// Parse decodes a credential produced by Issue.
func Parse(token string) (*Payload, error) {
	encoded, ok := strings.CutPrefix(token, prefix)
	if !ok || encoded == "" {
		return nil, ErrMalformed
	}
	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrMalformed
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, ErrMalformed
	}
	if p.DepartureID <= 0 || p.SeatNumber <= 0 || p.Nonce == uuid.Nil {
		return nil, ErrMalformed
	}
	return &p, nil
}
