package testkit

import (
	"fmt"
	"sort"
	"strings"

	"salesdash/internal/normalize"
)

// HighDiscount splits products into high and low discount groups
const HighDiscount = 30.0

type qaJSON struct {
	ID        string `json:"id"`
	CardTitle string `json:"cardTitle,omitempty"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

func qaItems(products []Product) []qaJSON {
	byRating := categoryRatings(products)
	best, worst := byRating[0], byRating[len(byRating)-1]

	discounts := avgDiscountByCategory(products)
	popular := popularProducts(products, 1)
	words := keywords(products, 3)
	reviews := reviewTitleCounts(products, 1)
	corr := correlation(products, 200)

	wordList := make([]string, 0, len(words))
	for _, w := range words {
		wordList = append(wordList, fmt.Sprintf("**%s** (%d)", w.Keyword, w.Count))
	}

	return []qaJSON{
		{"q1", "Ratings by category", "Which product categories have the highest average rating?",
			fmt.Sprintf("**%s** leads with an average rating of %.2f, while **%s** trails at %.2f.", best.CategoryShort, *best.AvgRating, worst.CategoryShort, *worst.AvgRating)},
		{"q2", "", "Which product is the most reviewed in each category?",
			"The table lists, for every category, the product with the most ratings. Review volume is heavily concentrated in a handful of listings."},
		{"q3", "Price distribution", "How do discounted prices compare with actual prices?",
			"Discounts pull most listings into the **0-500** and **500-1000** bands; actual prices sit noticeably higher across the range."},
		{"q4", "Discounts by category", "Which categories offer the deepest discounts?",
			fmt.Sprintf("**%s** has the deepest average discount at %.2f%%.", discounts[0].CategoryShort, *discounts[0].AvgDiscount)},
		{"q5", "", "Which products appear most often in the catalogue?",
			fmt.Sprintf("*%s* is listed %d times, more than any other product.", popular[0].ProductNameShort, popular[0].Occurrences)},
		{"q6", "Product keywords", "What keywords appear most in product names?",
			"The most frequent name keywords are " + strings.Join(wordList, ", ") + "."},
		{"q7", "Review titles", "What do reviewers say most often?",
			fmt.Sprintf("The most common review title is \"%s\", used %d times.", reviews[0].ReviewTitleShort, reviews[0].Count)},
		{"q8", "Price vs rating", "Does a higher price mean a better rating?",
			fmt.Sprintf("Only weakly: the correlation between price and rating is %.3f.", corr.Correlation)},
		{"q9", "Top categories", "What are the top 5 categories by average rating?",
			"The five best rated categories are shown with their product counts. Small categories can rank high on few ratings."},
	}
}

// insightJSON is one hypothesis result; metric fields are merged in
type insightJSON struct {
	orderedObject
}

func newInsight(id, question, hypothesis, test string, res TestResult, interpretation, recommendation string) *insightJSON {
	in := &insightJSON{}
	in.Set("id", id)
	in.Set("question", question)
	in.Set("hypothesis", hypothesis)
	in.Set("test", test)
	in.Set("p_value", res.PValue)
	in.Set("significant", res.Significant())
	in.Set("interpretation", interpretation)
	in.Set("recommendation", recommendation)
	return in
}

func verdict(res TestResult, yes, no string) string {
	if res.Significant() {
		return yes
	}
	return no
}

func businessInsights(products []Product) []*insightJSON {
	var out []*insightJSON

	// insight1, insight2: discount level
	var high, low []Product
	for _, p := range products {
		if p.DiscountPercentage >= HighDiscount {
			high = append(high, p)
		} else {
			low = append(low, p)
		}
	}
	if res, ok := WelchT(ratings(high), ratings(low)); ok {
		in := newInsight("insight1",
			"Do heavily discounted products receive different ratings?",
			"Products with a discount of 30% or more have a different mean rating than those below 30%.",
			"Welch two-sample t-test", res,
			verdict(res, "Discount level is associated with a difference in ratings.", "Ratings do not differ meaningfully by discount level."),
			verdict(res, "Review whether deep discounts are masking quality concerns.", "Set discounts on margin grounds; they do not move ratings."))
		in.Set("high_discount_mean", mean(ratings(high)))
		in.Set("high_discount_count", len(high))
		in.Set("low_discount_mean", mean(ratings(low)))
		in.Set("low_discount_count", len(low))
		in.Set("t_statistic", round(res.Statistic, 3))
		out = append(out, in)
	}

	if res, ok := WelchT(reviewCounts(high), reviewCounts(low)); ok {
		in := newInsight("insight2",
			"Do discounted products attract more reviews?",
			"Products with a discount of 30% or more have a different mean review count.",
			"Welch two-sample t-test", res,
			verdict(res, "Discount level is associated with review volume.", "Review volume does not depend on discount level."),
			verdict(res, "Use discounts to seed reviews for new listings.", "Drive reviews through post-purchase follow-up rather than price."))
		in.Set("high_discount_mean_reviews", mean(reviewCounts(high)))
		in.Set("low_discount_mean_reviews", mean(reviewCounts(low)))
		in.Set("t_statistic", round(res.Statistic, 3))
		out = append(out, in)
	}

	// insight3: best vs worst rated categories
	ranked := categoryRatings(products)
	if len(ranked) >= 6 {
		groups := map[string][]Product{}
		for _, p := range products {
			short := normalize.LastSegment(p.Category)
			groups[short] = append(groups[short], p)
		}
		var top, bottom []float64
		var topNames, bottomNames []string
		for _, c := range ranked[:3] {
			top = append(top, ratings(groups[c.CategoryShort])...)
			topNames = append(topNames, c.CategoryShort)
		}
		for _, c := range ranked[len(ranked)-3:] {
			bottom = append(bottom, ratings(groups[c.CategoryShort])...)
			bottomNames = append(bottomNames, c.CategoryShort)
		}
		if res, ok := WelchT(top, bottom); ok {
			in := newInsight("insight3",
				"Do the best rated categories really outperform the worst?",
				"Products in the top three categories by rating have a higher mean rating than those in the bottom three.",
				"Welch two-sample t-test", res,
				verdict(res, "The category gap in ratings is real.", "The category gap could be noise."),
				verdict(res, "Study what the top categories do well and apply it to the bottom ones.", "Avoid category-level decisions based on rating rank alone."))
			in.Set("top_categories_mean", mean(top))
			in.Set("bottom_categories_mean", mean(bottom))
			in.Set("top_categories", topNames)
			in.Set("bottom_categories", bottomNames)
			in.Set("t_statistic", round(res.Statistic, 3))
			out = append(out, in)
		}
	}

	// insight4: price tiers
	tiers := map[string][]float64{}
	for _, p := range priced(products) {
		tier := "Mid"
		switch {
		case p.DiscountedPrice < 500:
			tier = "Low"
		case p.DiscountedPrice > 2000:
			tier = "High"
		}
		tiers[tier] = append(tiers[tier], p.Rating)
	}
	if res, ok := OneWayANOVA([][]float64{tiers["Low"], tiers["Mid"], tiers["High"]}); ok {
		in := newInsight("insight4",
			"Does price tier affect rating?",
			"Mean ratings differ across Low (<500), Mid (500-2000) and High (>2000) price tiers.",
			"One-way ANOVA", res,
			verdict(res, "Ratings vary with price tier.", "Ratings are similar across price tiers."),
			verdict(res, "Position premium listings on quality.", "Compete on value in every tier."))
		means := orderedObject{}
		for _, tier := range []string{"Low", "Mid", "High"} {
			means.Set(tier, mean(tiers[tier]))
		}
		in.Set("tier_means", means)
		in.Set("f_statistic", round(res.Statistic, 3))
		out = append(out, in)
	}

	// insight5: discount across categories
	groups := byCategory(products)
	names := sortedCategories(groups)
	discountGroups := make([][]float64, 0, len(names))
	discountMeans := orderedObject{}
	for _, name := range names {
		var d []float64
		for _, p := range groups[name] {
			d = append(d, p.DiscountPercentage)
		}
		discountGroups = append(discountGroups, d)
		discountMeans.Set(normalize.LastSegment(name), mean(d))
	}
	if res, ok := OneWayANOVA(discountGroups); ok {
		in := newInsight("insight5",
			"Do discount levels differ across categories?",
			"Mean discount percentage differs between product categories.",
			"One-way ANOVA", res,
			verdict(res, "Categories are discounted differently.", "Discounting is uniform across categories."),
			verdict(res, "Benchmark discounts per category rather than store-wide.", "A single discount policy is consistent with current practice."))
		in.Set("category_discount_means", discountMeans)
		in.Set("f_statistic", round(res.Statistic, 3))
		out = append(out, in)
	}

	// insight6: price and rating
	withPrice := priced(products)
	var prices []float64
	for _, p := range withPrice {
		prices = append(prices, p.DiscountedPrice)
	}
	if res, ok := PearsonTest(prices, ratings(withPrice)); ok {
		in := newInsight("insight6",
			"Are more expensive products rated higher?",
			"Discounted price and rating are correlated.",
			"Pearson correlation", res,
			verdict(res, "Price and rating move together, though weakly.", "Price says little about rating."),
			verdict(res, "Highlight ratings on premium listings.", "Do not rely on price as a quality signal."))
		in.Set("correlation", round(res.Statistic, 3))
		out = append(out, in)
	}

	// insight7: most reviewed decile vs the rest
	sorted := append([]Product(nil), products...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].RatingCount > sorted[j].RatingCount })
	cut := len(sorted) / 10
	if cut >= 2 {
		top, rest := sorted[:cut], sorted[cut:]
		if res, ok := WelchT(ratings(top), ratings(rest)); ok {
			in := newInsight("insight7",
				"Are the most reviewed products rated differently?",
				"The top 10% of products by review count have a different mean rating than the rest.",
				"Welch two-sample t-test", res,
				verdict(res, "Popular products are rated differently.", "Popularity and rating are unrelated."),
				verdict(res, "Feature popular products prominently.", "Surface well rated niche products alongside bestsellers."))
			in.Set("top_products_mean", mean(ratings(top)))
			in.Set("top_products_count", len(top))
			in.Set("other_products_mean", mean(ratings(rest)))
			in.Set("other_products_count", len(rest))
			in.Set("t_statistic", round(res.Statistic, 3))
			out = append(out, in)
		}
	}

	return out
}

func reviewCounts(products []Product) []float64 {
	out := make([]float64, 0, len(products))
	for _, p := range products {
		out = append(out, float64(p.RatingCount))
	}
	return out
}
