// config/db.go
package config

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes connection to MongoDB
func ConnectDB() *mongo.Client {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = os.Getenv("MONGODB_URI")
	}

	// Only use Docker service name as fallback in development
	if mongoURI == "" {
		env := os.Getenv("ENV")
		if env == "development" || env == "dev" {
			mongoURI = "mongodb://mongodb:27017"
		} else {
			log.Fatal("MONGO_URI or MONGODB_URI environment variable is required for production")
		}
	}

	log.Printf("Connecting to MongoDB at: %s", maskMongoURI(mongoURI))

	clientOptions := options.Client().ApplyURI(mongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatal("MongoDB connection error:", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatal("MongoDB ping error:", err)
	}

	log.Println("Connected to MongoDB")

	setupCollections(client)

	return client
}

// DatabaseName returns the configured database name.
func DatabaseName() string {
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "atlas"
	}
	return dbName
}

// GetCollection returns MongoDB collection
func GetCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database(DatabaseName()).Collection(collectionName)
}

// setupCollections ensures all necessary collections and indexes exist.
// The unique indexes below are what enforces the one-live-record-per-
// natural-key invariant of the score and calculation collections.
func setupCollections(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := client.Database(DatabaseName())

	collections := []string{
		"users", "clients", "squads", "sellers", "contracts",
		"activities", "tickets", "onboardings",
		"oteModels", "oteCalculations",
		"clientHealthScores", "squadHealthScores", "churnRiskScores",
		"scoringConfigs", "auditLogs",
	}
	for _, collName := range collections {
		db.CreateCollection(ctx, collName)
	}

	// Email index for users collection
	userColl := db.Collection("users")
	emailIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := userColl.Indexes().CreateOne(ctx, emailIndexModel); err != nil {
		log.Printf("Error creating email index: %v", err)
	}

	// Natural key for commission results: one calculation per (seller, period)
	oteColl := db.Collection("oteCalculations")
	oteIndexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "sellerId", Value: 1},
			{Key: "period", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := oteColl.Indexes().CreateOne(ctx, oteIndexModel); err != nil {
		log.Printf("Error creating oteCalculations index: %v", err)
	}

	// One live score record per subject
	scoreIndexes := map[string]string{
		"clientHealthScores": "clientId",
		"churnRiskScores":    "clientId",
		"squadHealthScores":  "squadId",
	}
	for collName, key := range scoreIndexes {
		coll := db.Collection(collName)
		indexModel := mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := coll.Indexes().CreateOne(ctx, indexModel); err != nil {
			log.Printf("Error creating %s index for %s: %v", key, collName, err)
		}
	}

	// One config record per scoring kind
	configColl := db.Collection("scoringConfigs")
	configIndexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "kind", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := configColl.Indexes().CreateOne(ctx, configIndexModel); err != nil {
		log.Printf("Error creating scoringConfigs index: %v", err)
	}

	log.Println("Database collections and indexes setup complete")
}

// maskMongoURI masks the password in MongoDB URI for logging
func maskMongoURI(uri string) string {
	if idx := strings.Index(uri, "@"); idx > 0 {
		if colonIdx := strings.LastIndex(uri[:idx], ":"); colonIdx > 0 {
			return uri[:colonIdx+1] + "***" + uri[idx:]
		}
	}
	return uri
}
