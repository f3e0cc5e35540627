package utils

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/marulab/maruboard/config"
)

// Verifier checks a bearer token from the external identity provider and
// returns the opaque subject string identifying the caller. The subject is
// the provider's identifier, not an internal user id; resolution to a user
// record happens in the service layer.
type Verifier interface {
	Verify(ctx context.Context, token string) (subject string, err error)
}

// NewVerifier builds the verifier selected by configuration: "firebase" for
// production, "static" for HS256 tokens in development and tests.
func NewVerifier(ctx context.Context, cfg config.AppConfig) (Verifier, error) {
	switch cfg.IdentityMode {
	case "firebase":
		return newFirebaseVerifier(ctx, cfg.FirebaseCredentialsFile)
	case "static":
		if cfg.IdentitySecret == "" {
			return nil, fmt.Errorf("static identity mode requires IDENTITY_SECRET")
		}
		return NewStaticVerifier(cfg.IdentitySecret), nil
	default:
		return nil, fmt.Errorf("unknown identity mode %q", cfg.IdentityMode)
	}
}

type firebaseVerifier struct {
	client *firebaseauth.Client
}

func newFirebaseVerifier(ctx context.Context, credentialsFile string) (*firebaseVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth client: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

// Verify validates a Firebase ID token and returns its UID as the subject.
func (v *firebaseVerifier) Verify(ctx context.Context, token string) (string, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", fmt.Errorf("verify id token: %w", err)
	}
	return decoded.UID, nil
}
