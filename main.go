package main

import (
	"context"
	"log"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"google.golang.org/api/option"

	calendar "github.com/vexprep/reminder-sync/repos/calendar"
	notify "github.com/vexprep/reminder-sync/repos/notify"
	tournaments "github.com/vexprep/reminder-sync/repos/tournaments"

	auth "github.com/vexprep/reminder-sync/pkg/auth"

	checklist "github.com/vexprep/reminder-sync/services/checklist"
	sync "github.com/vexprep/reminder-sync/services/sync"
)

func main() {
	ctx := context.Background()

	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	credentialsJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
	calendarCredentialsJSON := os.Getenv("GOOGLE_CALENDAR_CREDENTIALS_JSON")
	resendKey := os.Getenv("RESEND_KEY")
	notifyFrom := os.Getenv("NOTIFY_FROM")
	notifyTo := os.Getenv("NOTIFY_TO")
	port := os.Getenv("PORT")
	allowOrigins := os.Getenv("CORS_HOSTS")

	credentialsOption := option.WithCredentialsJSON([]byte(credentialsJSON))

	firestoreClient, err := firestore.NewClient(ctx, projectID, credentialsOption)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	firebaseApp, err := firebase.NewApp(ctx, nil, credentialsOption)
	if err != nil {
		log.Fatalf("error initializing app: %v\n", err)
	}

	calendarBackend, err := calendar.NewGoogleBackend(ctx, option.WithCredentialsJSON([]byte(calendarCredentialsJSON)))
	if err != nil {
		log.Fatalf("Failed to create calendar backend: %v", err)
	}

	store := tournaments.NewStore(firestoreClient)
	calendarService := calendar.NewService(calendarBackend)
	notifyService := notify.NewService(notify.NewLocalPlatform(notify.NewResendDelivery(resendKey, notifyFrom, notifyTo)))

	syncService := sync.NewSyncService(store, calendarService, notifyService)
	checklistService := checklist.NewChecklistService(firestoreClient)

	if err := store.LoadSnapshot(ctx); err != nil {
		log.Fatalf("Failed to load tournament snapshot: %v", err)
	}
	// Scheduled triggers do not outlive a restart; rebuild them once from the
	// reloaded set.
	if err := syncService.ReconcileAll(ctx); err != nil {
		log.Printf("Failed to reconcile reminders on startup: %v\n", err)
	}

	// Periodic re-reconcile so past-due triggers age out of the pending set.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 6h", func() {
		if err := syncService.ReconcileAll(context.Background()); err != nil {
			log.Printf("Failed periodic reminder reconcile: %v\n", err)
		}
	}); err != nil {
		log.Fatalf("Failed to register reconcile job: %v", err)
	}
	scheduler.Start()

	config := cors.DefaultConfig()
	config.AllowOrigins = strings.Split(allowOrigins, ",")
	config.AllowCredentials = true
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Access-Control-Allow-Origin"}

	router := gin.Default()
	router.Use(cors.New(config))

	syncRouter := router.Group("/sync/v1")
	syncRouter.Use(auth.AuthMiddleware(firebaseApp)) // Apply the middleware here

	checklistRouter := router.Group("/checklist/v1")
	checklistRouter.Use(auth.AuthMiddleware(firebaseApp)) // Apply the middleware here

	sync.NewHTTPHandler(sync.HTTPOptions{
		Service: syncService,
		Router:  syncRouter,
	})

	checklist.NewHTTPHandler(checklist.HTTPOptions{
		Service: checklistService,
		Router:  checklistRouter,
	})

	log.Fatal(router.Run(":" + port))
}
