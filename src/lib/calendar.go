package lib

import (
	"context"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarOAuthConfig is nil when the agency calendar is not configured.
func CalendarOAuthConfig() *oauth2.Config {
	clientID := os.Getenv("OAUTH_CLIENT_ID")
	if clientID == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("OAUTH_REDIRECT_URL"),
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarEventsScope},
	}
}

func GAPICreateCalendarService(ctx context.Context, tok *oauth2.Token, conf *oauth2.Config) (*calendar.Service, error) {
	return calendar.NewService(ctx, option.WithTokenSource(conf.TokenSource(ctx, tok)))
}

func GAPIAddEvent(ctx context.Context, calId string, e *calendar.Event, s *calendar.Service) (*calendar.Event, error) {
	return s.Events.Insert(calId, e).Context(ctx).Do()
}
