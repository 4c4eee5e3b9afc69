package services

import (
	"context"
	"fmt"
	"os"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var (
	authClient *auth.Client
	authOnce   sync.Once
	authErr    error
)

// GetAuthClient возвращает инициализированный экземпляр Firebase Auth Client
func GetAuthClient() (*auth.Client, error) {
	authOnce.Do(func() {
		ctx := context.Background()

		credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
		if credPath == "" {
			authErr = fmt.Errorf("FIREBASE_CREDENTIALS_PATH not set")
			return
		}

		app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credPath))
		if err != nil {
			authErr = fmt.Errorf("firebase app init: %w", err)
			return
		}

		authClient, authErr = app.Auth(ctx)
	})

	return authClient, authErr
}

// DeleteFirebaseUser удаляет аккаунт опекуна из Firebase Auth по UID
func DeleteFirebaseUser(uid string) error {
	client, err := GetAuthClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	return client.DeleteUser(ctx, uid)
}
