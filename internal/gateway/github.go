// Package gateway provides a gateway to the GitHub GraphQL API,
// abstracting away the underlying GraphQL client.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/naka-gawa/github-dormant/internal/config"
	"github.com/naka-gawa/github-dormant/internal/domain"
)

const bearerPrefix = "bearer "

// ErrUserNotFound is returned when the API has no user for the requested login.
var ErrUserNotFound = errors.New("user not found")

// QueryError reports a GraphQL request that was answered with a non-200 status.
type QueryError struct {
	StatusCode int
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("Query failed with code %d", e.StatusCode)
}

// Fetcher defines the behavior of a gateway for fetching user profiles from GitHub.
type Fetcher interface {
	FetchUser(ctx context.Context, login string) (*domain.UserRecord, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	graphqlClient *githubv4.Client
	logger        *zap.Logger
}

type totalCount struct {
	TotalCount *githubv4.Int
}

// userInfoQuery mirrors:
//
//	query($login: String!) { __typename user(login: $login) { ... } }
//
// The root __typename is only set when the response carried a data object.
type userInfoQuery struct {
	Typename string `graphql:"__typename"`
	User     *struct {
		Login                   githubv4.String
		CreatedAt               *githubv4.String
		StarredRepositories     totalCount
		Repositories            totalCount
		Following               totalCount
		ContributionsCollection struct {
			TotalCommitContributions     *githubv4.Int
			RestrictedContributionsCount *githubv4.Int
			HasAnyContributions          *githubv4.Boolean
		}
	} `graphql:"user(login: $login)"`
}

// errorTypesKey carries a *[]string through the request context. The
// transport fills it with the "type" of every GraphQL error in the response,
// which the GraphQL client does not expose.
type errorTypesKey struct{}

// statusTransport turns non-200 responses into a *QueryError so the status
// code survives the GraphQL client's error formatting.
type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if isRedirect(resp) {
		return resp, nil
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &QueryError{StatusCode: resp.StatusCode}
	}
	if types, ok := req.Context().Value(errorTypesKey{}).(*[]string); ok {
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
		var payload struct {
			Errors []struct {
				Type string `json:"type"`
			} `json:"errors"`
		}
		if json.Unmarshal(body, &payload) == nil {
			for _, e := range payload.Errors {
				*types = append(*types, e.Type)
			}
		}
	}
	return resp, nil
}

// isRedirect reports whether http.Client will follow resp.
func isRedirect(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return resp.Header.Get("Location") != ""
	}
	return false
}

// newHTTPClient returns a client that sends the bearer token on every request.
// A token that already carries a "bearer " prefix is sent without it doubled.
func newHTTPClient(token string, base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	token = strings.TrimSpace(token)
	if len(token) > len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix) {
		token = strings.TrimSpace(token[len(bearerPrefix):])
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &http.Client{
		Transport: &oauth2.Transport{
			Base:   &statusTransport{base: base},
			Source: ts,
		},
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// An empty token is accepted; requests will then fail with 401.
func NewGitHubGateway(cfg config.GitHubConfig, logger *zap.Logger) (*GitHubGateway, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("gateway: endpoint is required")
	}
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("gateway: invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	httpClient := newHTTPClient(cfg.Token, nil)
	return &GitHubGateway{
		graphqlClient: githubv4.NewEnterpriseClient(cfg.Endpoint, httpClient),
		logger:        logger,
	}, nil
}

// FetchUser sends one userInfo query for login. It never retries.
func (g *GitHubGateway) FetchUser(ctx context.Context, login string) (*domain.UserRecord, error) {
	var q userInfoQuery
	var errorTypes []string
	variables := map[string]interface{}{"login": githubv4.String(login)}

	err := g.graphqlClient.Query(context.WithValue(ctx, errorTypesKey{}, &errorTypes), &q, variables)

	var queryErr *QueryError
	if errors.As(err, &queryErr) {
		return nil, queryErr
	}
	if err != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return nil, fmt.Errorf("failed to execute GraphQL query for %s: %w", login, err)
	}
	// GitHub answers unknown logins with data.user == null and a NOT_FOUND
	// error. Without a decoded data object the request itself failed.
	if q.User == nil && q.Typename != "" && (err == nil || allNotFound(errorTypes)) {
		if err != nil {
			g.logger.Debug("User query returned no user", zap.String("login", login), zap.Error(err))
		}
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for %s: %w", login, err)
	}
	if q.User == nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for %s: response has no data", login)
	}

	u := q.User
	return &domain.UserRecord{
		Login:                        string(u.Login),
		CreatedAt:                    (*string)(u.CreatedAt),
		StarredRepositories:          intPtr(u.StarredRepositories.TotalCount),
		Repositories:                 intPtr(u.Repositories.TotalCount),
		Following:                    intPtr(u.Following.TotalCount),
		TotalCommitContributions:     intPtr(u.ContributionsCollection.TotalCommitContributions),
		RestrictedContributionsCount: intPtr(u.ContributionsCollection.RestrictedContributionsCount),
		HasAnyContributions:          (*bool)(u.ContributionsCollection.HasAnyContributions),
	}, nil
}

func allNotFound(types []string) bool {
	if len(types) == 0 {
		return false
	}
	for _, t := range types {
		if t != "NOT_FOUND" {
			return false
		}
	}
	return true
}

func intPtr(v *githubv4.Int) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
