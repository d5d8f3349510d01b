package lib

import (
	"context"
	"log"
	"os"
	"path"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var innerApp *firebase.App
var innerAuth *auth.Client

func GetFirebaseAuth() (*auth.Client, error) {
	if innerAuth != nil {
		return innerAuth, nil
	}
	if innerApp == nil {
		secretsPath := os.Getenv("SECRETS_DIR")
		opt := option.WithCredentialsFile(path.Join(secretsPath, "admin-sdk-credentials.json"))
		app, err := firebase.NewApp(context.Background(), nil, opt)
		if err != nil {
			log.Printf("error initializing app: %s\n", err.Error())
			return nil, err
		}
		innerApp = app
	}

	auth, err := innerApp.Auth(context.Background())
	if err != nil {
		log.Printf("error initializing Firebase Auth: %s\n", err.Error())
		return nil, err
	}
	innerAuth = auth

	return auth, nil
}
