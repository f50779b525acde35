// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"teleka/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// FCMClient is nil when FIREBASE_CREDENTIALS_FILE is not set.
var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase App and Messaging client.
func FirebaseInit(ctx context.Context) error {
	path := config.AppConfig.FirebaseCredentialsFile
	if path == "" {
		return nil
	}
	sa, err := config.LoadServiceAccount(path)
	if err != nil {
		return fmt.Errorf("firebase: %w", err)
	}
	opt := option.WithCredentialsFile(path)

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: sa.ProjectID}, opt)
	if err != nil {
		return fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return fmt.Errorf("firebase: error getting Messaging client: %w", err)
	}

	FCMClient = client
	GetLogger().Info("firebase messaging ready", zap.String("project", sa.ProjectID), zap.String("account", sa.ClientEmail))
	return nil
}
