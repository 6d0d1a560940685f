// Package github fetches public profiles and their repositories from the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/spigell/gitrecruiter/internal/failure"
)

const (
	userAgent      = "spigell/gitrecruiter"
	defaultTimeout = 15 * time.Second
	// Single page only; GitHub caps per_page at 100.
	perPage = 100
)

type Client struct {
	gh      *gh.Client
	logger  *zap.Logger
	Timeout time.Duration
}

// New creates a client. An empty token is allowed and only lowers the rate limit.
func New(logger *zap.Logger, token string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := &http.Client{}
	if token = strings.TrimSpace(token); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := gh.NewClient(httpClient)
	client.UserAgent = userAgent

	logger.Debug("github client created", zap.Bool("authenticated", token != ""))

	return &Client{
		gh:      client,
		logger:  logger,
		Timeout: defaultTimeout,
	}
}

// SetBaseURL points the client at another API root, e.g. GitHub Enterprise.
func (c *Client) SetBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	u, err := url.Parse(strings.TrimSuffix(raw, "/") + "/")
	if err != nil {
		return fmt.Errorf("parse github api url: %w", err)
	}

	c.gh.BaseURL = u
	return nil
}

// FetchProfile returns the profile of handle and up to 100 of its most
// recently updated repositories. The repository call is only made once the
// profile call succeeded.
func (c *Client) FetchProfile(ctx context.Context, handle string) (*Profile, []Repository, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	c.logger.Debug("fetching profile", zap.String("handle", handle))

	user, resp, err := c.gh.Users.Get(ctx, handle)
	if err != nil {
		return nil, nil, profileError(resp, err)
	}

	opts := &gh.RepositoryListOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	repos, resp, err := c.gh.Repositories.List(ctx, handle, opts)
	if err != nil {
		return nil, nil, failure.New(failure.KindRepositoryFetchFailed, withStatus(resp, err))
	}

	c.logger.Debug("fetched repositories",
		zap.String("handle", handle),
		zap.Int("count", len(repos)),
	)

	return toProfile(user), toRepositories(repos), nil
}

func profileError(resp *gh.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return failure.New(failure.KindServiceUnavailable, err)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return failure.New(failure.KindProfileNotFound, withStatus(resp, err))
	case http.StatusForbidden:
		return failure.New(failure.KindRateLimited, withStatus(resp, err))
	default:
		return failure.New(failure.KindServiceUnavailable, withStatus(resp, err))
	}
}

func withStatus(resp *gh.Response, err error) error {
	if resp == nil || resp.Response == nil {
		return err
	}
	return fmt.Errorf("bad status %d: %w", resp.StatusCode, err)
}

func toProfile(u *gh.User) *Profile {
	return &Profile{
		Login:       u.GetLogin(),
		Name:        u.GetName(),
		AvatarURL:   u.GetAvatarURL(),
		Bio:         u.GetBio(),
		Location:    u.GetLocation(),
		Blog:        u.GetBlog(),
		Followers:   u.GetFollowers(),
		Following:   u.GetFollowing(),
		PublicRepos: u.GetPublicRepos(),
		CreatedAt:   u.GetCreatedAt().Time,
		HTMLURL:     u.GetHTMLURL(),
	}
}

func toRepositories(repos []*gh.Repository) []Repository {
	out := make([]Repository, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}
		out = append(out, Repository{
			Name:        r.GetName(),
			Description: r.GetDescription(),
			Language:    r.GetLanguage(),
			Stars:       r.GetStargazersCount(),
			Forks:       r.GetForksCount(),
			UpdatedAt:   r.GetUpdatedAt().Time,
			HTMLURL:     r.GetHTMLURL(),
			Fork:        r.GetFork(),
		})
	}
	return out
}
