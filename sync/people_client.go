// ABOUTME: Google People API client for contacts import
// ABOUTME: Wraps the People service behind a page fetcher so imports can be tested offline
package sync

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

const personFields = "names,emailAddresses,phoneNumbers,organizations,biographies"

// PeopleFetcher returns one page of the user's connections.
type PeopleFetcher interface {
	FetchConnections(ctx context.Context, pageToken string) ([]*people.Person, string, error)
}

type peopleClient struct {
	service *people.Service
}

// NewPeopleClient creates a People API fetcher that refreshes token as needed.
func NewPeopleClient(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (PeopleFetcher, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	client := config.Client(ctx, token)
	service, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}

	return &peopleClient{service: service}, nil
}

func (c *peopleClient) FetchConnections(ctx context.Context, pageToken string) ([]*people.Person, string, error) {
	call := c.service.People.Connections.List("people/me").
		PageSize(1000).
		PersonFields(personFields).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch contacts: %w", err)
	}
	if response == nil {
		return nil, "", nil
	}
	return response.Connections, response.NextPageToken, nil
}
