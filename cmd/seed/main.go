// Command seed fills the configured database with fake users, posts and
// comments.
package main

import (
	"flag"
	"log"

	"inkwell/internal/auth"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	postsPerUser := flag.Int("posts", 5, "Posts per user")
	maxComments := flag.Int("comments", 4, "Maximum comments per post")
	days := flag.Int("days", 90, "Spread post dates over this many past days")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	factory, err := seed.NewFactory(db, auth.NewBcryptHasher(cfg.BcryptCost), *randSeed, *days)
	if err != nil {
		log.Fatalf("Failed to build factory: %v", err)
	}

	sum, err := seed.NewSeeder(db, factory).Run(seed.Options{
		Users:           *numUsers,
		PostsPerUser:    *postsPerUser,
		MaxCommentsPost: *maxComments,
		Clean:           *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d comments", sum.Users, sum.Posts, sum.Comments)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
