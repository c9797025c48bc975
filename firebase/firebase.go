package firebase

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Verifier validates Google ID tokens presented by the web frontend's
// sign-in flow.
type Verifier struct {
	client *auth.Client
}

// NewVerifier initializes the Firebase app and its auth client.
// GOOGLE_APPLICATION_CREDENTIALS may hold either inline JSON or a file path.
func NewVerifier(ctx context.Context) (*Verifier, error) {
	credJSON := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")

	var opts []option.ClientOption

	if credJSON != "" {
		if strings.HasPrefix(credJSON, "{") {
			log.Println("Using Firebase credentials from environment variable")
			opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			// It's a file path
			log.Println("Using Firebase credentials from file:", credJSON)
			opts = append(opts, option.WithCredentialsFile(credJSON))
		}
	} else {
		log.Println("Warning: GOOGLE_APPLICATION_CREDENTIALS not set, using default credentials")
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase init failed: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth client failed: %w", err)
	}

	log.Println("Firebase initialized successfully")
	return &Verifier{client: client}, nil
}

// VerifyIDToken checks the token signature and expiry and returns the
// verified email and display name.
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (string, string, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", "", err
	}

	email, _ := token.Claims["email"].(string)
	if email == "" {
		return "", "", fmt.Errorf("token carries no email claim")
	}
	name, _ := token.Claims["name"].(string)

	return email, name, nil
}
