// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"errors"
	"strconv"
)

// DefaultCutoffYear is the first year in which an account is no longer considered old.
const DefaultCutoffYear = 2011

// ErrMalformedRecord is returned when a user record lacks a field needed for evaluation.
var ErrMalformedRecord = errors.New("malformed user record")

// UserRecord is the raw profile data returned for a single login.
// Pointer fields are nil when the API omitted the value or returned null.
type UserRecord struct {
	Login                        string
	CreatedAt                    *string
	StarredRepositories          *int
	Repositories                 *int
	Following                    *int
	TotalCommitContributions     *int
	RestrictedContributionsCount *int
	HasAnyContributions          *bool
}

// Candidate holds the activity counters of a user under evaluation.
// It is the core domain entity of this application.
type Candidate struct {
	CreatedYear          int
	Stars                int
	Repos                int
	Commits              int
	PrivateContributions int
	// PublicContributions is 1 if the user has any contributions at all, 0 otherwise.
	PublicContributions int
	Following           int
}

// NewCandidate builds a Candidate from a UserRecord.
// It returns ErrMalformedRecord if any required field is missing.
func NewCandidate(rec *UserRecord) (*Candidate, error) {
	if rec == nil || rec.CreatedAt == nil || rec.StarredRepositories == nil ||
		rec.Repositories == nil || rec.Following == nil ||
		rec.TotalCommitContributions == nil || rec.RestrictedContributionsCount == nil ||
		rec.HasAnyContributions == nil {
		return nil, ErrMalformedRecord
	}

	createdAt := *rec.CreatedAt
	if len(createdAt) < 4 {
		return nil, ErrMalformedRecord
	}
	year, err := strconv.Atoi(createdAt[:4])
	if err != nil {
		return nil, ErrMalformedRecord
	}

	public := 0
	if *rec.HasAnyContributions {
		public = 1
	}

	return &Candidate{
		CreatedYear:          year,
		Stars:                *rec.StarredRepositories,
		Repos:                *rec.Repositories,
		Commits:              *rec.TotalCommitContributions,
		PrivateContributions: *rec.RestrictedContributionsCount,
		PublicContributions:  public,
		Following:            *rec.Following,
	}, nil
}

// IsOldAccount reports whether the account was created before DefaultCutoffYear.
func (c *Candidate) IsOldAccount() bool {
	return c.CreatedBefore(DefaultCutoffYear)
}

// CreatedBefore reports whether the account was created strictly before year.
func (c *Candidate) CreatedBefore(year int) bool {
	return c.CreatedYear < year
}

// IsInactive reports whether every tracked activity counter is zero.
func (c *Candidate) IsInactive() bool {
	return c.Stars+c.Repos+c.Commits+c.PrivateContributions+c.PublicContributions+c.Following == 0
}

// IsDormant reports whether the account is both old and inactive.
func (c *Candidate) IsDormant() bool {
	return c.IsOldAccount() && c.IsInactive()
}

// ExportRecord is the projection of a dormant candidate that gets written to the output file.
type ExportRecord struct {
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
}

// NewExportRecord projects a candidate onto the exported fields.
func NewExportRecord(login string, c *Candidate) ExportRecord {
	return ExportRecord{
		User:      login,
		CreatedAt: strconv.Itoa(c.CreatedYear),
	}
}
