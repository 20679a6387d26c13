package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/debtprotection/blog-core/internal/models"
	"github.com/debtprotection/blog-core/internal/modules/content/article"
	"github.com/debtprotection/blog-core/internal/modules/content/author"
	"github.com/debtprotection/blog-core/internal/modules/content/category"
)

var seedReset bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo authors and published articles",
	Long: `Insert a handful of demo authors and published articles, one per built-in
category. With --reset every existing article and author is deleted first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := open()
		if err != nil {
			return err
		}
		defer s.Close()

		resolver, err := category.FromConfig(s.cfg.Categories)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if seedReset {
			if err := resetContent(ctx, s.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cleared existing articles and authors")
		}
		authors := author.NewService(author.NewGormStore(s.db), s.log)
		articles := article.NewService(article.NewGormStore(s.db), resolver, s.log)
		return seed(ctx, cmd.OutOrStdout(), authors, articles)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete all articles and authors before seeding")
	rootCmd.AddCommand(seedCmd)
}

type demoAuthor struct {
	Name string
	Bio  string
}

type demoArticle struct {
	Title    string
	Excerpt  string
	Content  string
	Author   string
	ImageURL string
	Category string
}

var demoAuthors = []demoAuthor{
	{"Sarah Martinez", "Debt counsellor helping families build repayment plans they can keep."},
	{"Michael Chen", "Certified financial planner writing about saving and long-term goals."},
	{"Dr. Jennifer Williams", "Consumer credit researcher focused on scoring models."},
	{"Robert Taylor", "Consumer protection attorney covering collections and bankruptcy."},
}

var demoArticles = []demoArticle{
	{
		Title:    "Understanding Debt Management Strategies",
		Excerpt:  "Learn effective strategies to manage and reduce your debt with proven methods for financial control.",
		Content:  "<h2>Debt Consolidation</h2><p>Consolidating multiple debts into a single payment can simplify your finances and potentially lower your interest rates.</p><h2>Budgeting Basics</h2><p>Creating a realistic budget is the foundation of successful debt management. Track your income and expenses to identify areas for improvement.</p>",
		Author:   "Sarah Martinez",
		ImageURL: "https://images.unsplash.com/photo-1523050854058-8df90110c9f1?w=800&h=600&fit=crop",
		Category: "Debt Management",
	},
	{
		Title:    "Financial Planning for Your Future",
		Excerpt:  "Essential financial planning strategies for achieving your long-term goals and building wealth.",
		Content:  "<h2>Setting Financial Goals</h2><p>Define clear, measurable financial goals and create a roadmap to achieve them.</p><h2>Investment Strategies</h2><p>Learn about different investment options and how to build a diversified portfolio.</p>",
		Author:   "Michael Chen",
		ImageURL: "https://images.unsplash.com/photo-1434030216411-0b793f4b4173?w=800&h=600&fit=crop",
		Category: "Financial Planning",
	},
	{
		Title:    "How to Improve Your Credit Score",
		Excerpt:  "Discover proven methods to boost your credit score and unlock better financial opportunities.",
		Content:  "<h2>Payment History</h2><p>Making on-time payments is the most important factor in your credit score. Set up automatic payments to never miss a due date.</p><h2>Credit Utilization</h2><p>Keep your credit card balances low relative to your credit limits.</p>",
		Author:   "Dr. Jennifer Williams",
		ImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=800&h=600&fit=crop",
		Category: "Credit Scores",
	},
	{
		Title:    "Legal Rights for Debt Protection",
		Excerpt:  "Know your legal rights when dealing with debt collectors and creditors under federal law.",
		Content:  "<h2>Fair Debt Collection Practices Act</h2><p>The FDCPA limits what debt collectors can do when collecting debts.</p><h2>When to Seek Legal Help</h2><p>Sometimes professional legal advice is necessary. Know when to consult with a debt attorney.</p>",
		Author:   "Robert Taylor",
		ImageURL: "https://images.unsplash.com/photo-1551836022-deb4988cc6c0?w=800&h=600&fit=crop",
		Category: "Legal Advice",
	},
	{
		Title:    "Debt Settlement vs Bankruptcy",
		Excerpt:  "Compare debt settlement and bankruptcy options to make the best decision for your situation.",
		Content:  "<h2>Debt Settlement</h2><p>Debt settlement involves negotiating with creditors to pay less than the full amount owed.</p><h2>Bankruptcy Protection</h2><p>Bankruptcy can provide a fresh start, but it has long-term consequences.</p>",
		Author:   "Robert Taylor",
		ImageURL: "https://images.unsplash.com/photo-1554224155-6726b3ff858f?w=800&h=600&fit=crop",
		Category: "Debt Management",
	},
}

type authorSyncer interface {
	Sync(ctx context.Context, name, bio string)
}

type articleCreator interface {
	Create(ctx context.Context, actor article.Actor, in article.Input, profile article.Profile) (*models.ArticleModel, error)
}

// seed runs every demo article through the normal create path so slugs,
// metrics and publishedAt are derived exactly as for API writes.
func seed(ctx context.Context, out io.Writer, authors authorSyncer, articles articleCreator) error {
	for _, a := range demoAuthors {
		authors.Sync(ctx, a.Name, a.Bio)
	}
	actor := article.Actor{Name: "Seeder", Role: models.RoleAdmin}
	published := models.StatusPublished
	for _, d := range demoArticles {
		d := d
		cats := []string{d.Category}
		created, err := articles.Create(ctx, actor, article.Input{
			Title:      &d.Title,
			Excerpt:    &d.Excerpt,
			Content:    &d.Content,
			AuthorName: &d.Author,
			ImageURL:   &d.ImageURL,
			Categories: &cats,
			Status:     &published,
		}, article.ProfileStrict)
		if err != nil {
			return fmt.Errorf("seed %q: %w", d.Title, err)
		}
		fmt.Fprintf(out, "created %s (%s)\n", created.Slug, created.Author)
	}
	fmt.Fprintf(out, "seeded %d authors and %d articles\n", len(demoAuthors), len(demoArticles))
	return nil
}

func resetContent(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ArticleModel{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.AuthorModel{}).Error
	})
}
