package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env  string
	Port string

	CredentialType string
	ProjectID      string
	PrivateKey     string
	ClientEmail    string
	DatabaseURL    string

	NotifyTopic  string
	StoreBackend string
}

// requiredEnv lists the credential variables the process refuses to start without.
var requiredEnv = []string{
	"FIREBASE_TYPE",
	"FIREBASE_PROJECT_ID",
	"FIREBASE_PRIVATE_KEY",
	"FIREBASE_CLIENT_EMAIL",
}

// Load returns application config populated from environment variables.
// It fails when any required credential variable is absent, naming every
// missing key in the error.
func Load() (App, error) {
	var missing []string
	for _, key := range requiredEnv {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return App{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	return App{
		Env:            getEnv("APP_ENV", "dev"),
		Port:           getEnv("PORT", "5000"),
		CredentialType: os.Getenv("FIREBASE_TYPE"),
		ProjectID:      projectID,
		// .env files commonly carry the key with literal \n sequences.
		PrivateKey:   strings.ReplaceAll(os.Getenv("FIREBASE_PRIVATE_KEY"), `\n`, "\n"),
		ClientEmail:  os.Getenv("FIREBASE_CLIENT_EMAIL"),
		DatabaseURL:  getEnv("FIREBASE_DATABASE_URL", fmt.Sprintf("https://%s-default-rtdb.firebaseio.com", projectID)),
		NotifyTopic:  getEnv("NOTIFY_TOPIC", "all_users"),
		StoreBackend: getEnv("STORE_BACKEND", "firebase"),
	}, nil
}

// ServiceAccountJSON assembles the credential blob the Firebase SDK expects
// from the individual environment variables.
func (a App) ServiceAccountJSON() []byte {
	blob, _ := json.Marshal(map[string]string{
		"type":         a.CredentialType,
		"project_id":   a.ProjectID,
		"private_key":  a.PrivateKey,
		"client_email": a.ClientEmail,
	})
	return blob
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
