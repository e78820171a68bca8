package catalog

import "github.com/bilgisen/finsmart/internal/models"

var starterArticles = []models.ContentItem{
	{
		ID:          "1",
		Title:       "The Best Travel Credit Cards of 2025: Earn Miles Faster",
		Slug:        "best-travel-credit-cards-2025",
		Category:    models.CategoryCreditCards,
		Summary:     "We compared sign-up bonuses, annual fees and lounge access to find the travel cards that pay for themselves.",
		Author:      "Sarah Jenkins",
		PublishDate: "Jan 15, 2025",
		ImageURL:    "https://picsum.photos/seed/travel-cards/800/600",
	},
	{
		ID:          "2",
		Title:       "Term vs. Whole Life Insurance: Which One Do You Actually Need?",
		Slug:        "term-vs-whole-life-insurance",
		Category:    models.CategoryInsurance,
		Summary:     "A plain-language breakdown of premiums, cash value and coverage length so you can pick a policy with confidence.",
		Author:      "Michael Ross",
		PublishDate: "Jan 12, 2025",
		ImageURL:    "https://picsum.photos/seed/life-insurance/800/600",
	},
	{
		ID:          "3",
		Title:       "How to Get the Lowest Mortgage Rate When Buying Your First Home",
		Slug:        "lowest-mortgage-rate-first-home",
		Category:    models.CategoryLoans,
		Summary:     "Credit score targets, rate locks and points explained, plus the lender questions most first-time buyers forget.",
		Author:      "Emily Chen",
		PublishDate: "Jan 10, 2025",
		ImageURL:    "https://picsum.photos/seed/mortgage-rate/800/600",
	},
	{
		ID:          "4",
		Title:       "Index Funds for Beginners: Building a Retirement Portfolio",
		Slug:        "index-funds-for-beginners",
		Category:    models.CategoryInvesting,
		Summary:     "Why low-cost index funds beat stock picking for most savers, and how to split them across your accounts.",
		Author:      "David Park",
		PublishDate: "Jan 8, 2025",
		ImageURL:    "https://picsum.photos/seed/index-funds/800/600",
	},
	{
		ID:          "5",
		Title:       "The 50/30/20 Budget Rule and the Apps That Make It Easy",
		Slug:        "50-30-20-budget-rule-apps",
		Category:    models.CategoryBudgeting,
		Summary:     "A simple framework for splitting your paycheck, and the budgeting apps that automate the tracking.",
		Author:      "Priya Patel",
		PublishDate: "Jan 5, 2025",
		ImageURL:    "https://picsum.photos/seed/budget-apps/800/600",
	},
	{
		ID:          "6",
		Title:       "Balance Transfer Cards: Pay Down Debt Without the Interest",
		Slug:        "balance-transfer-cards-guide",
		Category:    models.CategoryCreditCards,
		Summary:     "How 0% intro APR offers work, what transfer fees really cost, and a payoff plan that beats the deadline.",
		Author:      "Sarah Jenkins",
		PublishDate: "Jan 3, 2025",
		ImageURL:    "https://picsum.photos/seed/balance-transfer/800/600",
	},
	{
		ID:          "7",
		Title:       "Refinancing Your Mortgage: When Does It Make Sense?",
		Slug:        "when-to-refinance-mortgage",
		Category:    models.CategoryLoans,
		Summary:     "Break-even math for closing costs, cash-out refinancing risks and the rate drop that makes a refi worthwhile.",
		Author:      "Emily Chen",
		PublishDate: "Dec 28, 2024",
		ImageURL:    "https://picsum.photos/seed/refinance/800/600",
	},
	{
		ID:          "8",
		Title:       "Roth vs. Traditional Retirement Accounts Explained",
		Slug:        "roth-vs-traditional-retirement",
		Category:    models.CategoryInvesting,
		Summary:     "Pay tax now or later? How to choose between Roth and traditional accounts based on your income path.",
		Author:      "David Park",
		PublishDate: "Dec 20, 2024",
		ImageURL:    "https://picsum.photos/seed/roth-ira/800/600",
	},
}
