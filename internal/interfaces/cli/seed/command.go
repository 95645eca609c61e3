package seed

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"kuppi/internal/domain/catalog"
	"kuppi/internal/infrastructure/config"
	"kuppi/internal/infrastructure/database"
	"kuppi/internal/infrastructure/repository"
	"kuppi/internal/shared/constants"
	"kuppi/internal/shared/logger"
)

var env string

type seedVideo struct {
	title       string
	description string
	mediaRef    string
	duration    string
}

type seedCard struct {
	name   string
	price  uint64
	isFree bool
	videos []seedVideo
}

type seedSubject struct {
	name        string
	description string
	cards       []seedCard
}

// fixtures mirrors the demo catalog the frontend was built against: one
// subject with three monthly cards, three videos each, default play ceiling.
var fixtures = []seedSubject{
	{
		name:        "Web Development",
		description: "Full-stack web development from the ground up.",
		cards: []seedCard{
			{
				name:  "January 2025",
				price: 250000,
				videos: []seedVideo{
					{
						title:       "Introduction to Web Development",
						description: "Learn the fundamentals of HTML, CSS, and JavaScript. Perfect for beginners starting their web development journey.",
						mediaRef:    "UB1O30fR-EE",
						duration:    "1:41:33",
					},
					{
						title:       "Advanced React Concepts",
						description: "Deep dive into React hooks, context API, and advanced patterns for building scalable applications.",
						mediaRef:    "f687hBjwFcM",
						duration:    "2:25:39",
					},
					{
						title:       "CSS Grid and Flexbox Mastery",
						description: "Master modern CSS layout techniques with comprehensive examples and real-world projects.",
						mediaRef:    "rg7Fvvl3taU",
						duration:    "1:11:21",
					},
				},
			},
			{
				name:  "February 2025",
				price: 250000,
				videos: []seedVideo{
					{
						title:       "Node.js Fundamentals",
						description: "Building server-side applications with Node.js, Express, and MongoDB for full-stack development.",
						mediaRef:    "TlB_eWDSMt4",
						duration:    "8:16:48",
					},
					{
						title:       "JavaScript ES6+ Features",
						description: "Explore modern JavaScript features including arrow functions, destructuring, async/await, and modules.",
						mediaRef:    "NCwa_xi0Uuc",
						duration:    "2:32:42",
					},
					{
						title:       "Database Design Principles",
						description: "Learn database design fundamentals, normalization, and best practices for data modeling.",
						mediaRef:    "ztHopE5Wnpc",
						duration:    "1:16:44",
					},
				},
			},
			{
				name:  "March 2025",
				price: 250000,
				videos: []seedVideo{
					{
						title:       "Python Programming Bootcamp",
						description: "Complete Python programming course covering basics to advanced topics including data structures and algorithms.",
						mediaRef:    "_uQrJ0TkZlc",
						duration:    "6:14:07",
					},
					{
						title:       "Git and GitHub Mastery",
						description: "Version control with Git, collaborative development workflows, and GitHub best practices.",
						mediaRef:    "RGOj5yH7evk",
						duration:    "1:08:13",
					},
					{
						title:       "API Development with REST",
						description: "Design and build RESTful APIs with proper authentication, validation, and documentation.",
						mediaRef:    "pKd0Rpw7O48",
						duration:    "2:17:54",
					},
				},
			},
		},
	},
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog into an empty database",
		Long:  `Seed the database with a demo catalog (subjects, course cards, videos) for local development. Refuses to run against a database that already has subjects.`,
		RunE:  run,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, env == constants.EnvDevelopment); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	db := database.Get()
	subjectRepo := repository.NewSubjectRepository(db, log)
	cardRepo := repository.NewCourseCardRepository(db, log)
	videoRepo := repository.NewVideoRepository(db, log)

	log.Infow("seeding demo catalog", "environment", env)

	return apply(cmd.Context(), subjectRepo, cardRepo, videoRepo, log)
}

// apply loads the fixtures through the regular repositories so every seeded
// row carries real SIDs and versions. It refuses a non-empty catalog rather
// than trying to merge.
func apply(ctx context.Context, subjectRepo catalog.SubjectRepository, cardRepo catalog.CourseCardRepository,
	videoRepo catalog.VideoRepository, log logger.Interface) error {

	existing, err := subjectRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to inspect catalog: %w", err)
	}
	if len(existing) > 0 {
		return fmt.Errorf("catalog already has %d subject(s); seeding only runs against an empty database", len(existing))
	}

	subjects, cards, videos := 0, 0, 0
	for si, s := range fixtures {
		subject, err := catalog.NewSubject(s.name, s.description, si)
		if err != nil {
			return fmt.Errorf("invalid seed subject %q: %w", s.name, err)
		}
		if err := subjectRepo.Create(ctx, subject); err != nil {
			return fmt.Errorf("failed to create subject %q: %w", s.name, err)
		}
		subjects++

		for ci, c := range s.cards {
			if err := seedOneCard(ctx, cardRepo, videoRepo, subject.ID(), c, ci, &cards, &videos); err != nil {
				return err
			}
		}
	}

	log.Infow("demo catalog seeded", "subjects", subjects, "cards", cards, "videos", videos)
	return nil
}

func seedOneCard(ctx context.Context, cardRepo catalog.CourseCardRepository, videoRepo catalog.VideoRepository,
	subjectID uint, c seedCard, sortOrder int, cards, videos *int) error {

	card, err := catalog.NewCourseCard(subjectID, c.name, "", c.price, "LKR", c.isFree, sortOrder)
	if err != nil {
		return fmt.Errorf("invalid seed card %q: %w", c.name, err)
	}
	if err := cardRepo.Create(ctx, card); err != nil {
		return fmt.Errorf("failed to create card %q: %w", c.name, err)
	}
	*cards++

	for vi, v := range c.videos {
		// maxPlays zero takes the domain default ceiling
		video, err := catalog.NewVideo(card.ID(), v.title, v.description, v.mediaRef, v.duration, 0, vi)
		if err != nil {
			return fmt.Errorf("invalid seed video %q: %w", v.title, err)
		}
		if err := videoRepo.Create(ctx, video); err != nil {
			return fmt.Errorf("failed to create video %q: %w", v.title, err)
		}
		*videos++
	}

	return nil
}
