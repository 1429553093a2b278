// Package skills holds the technology keyword tables and the matcher shared by resume and job analysis.
package skills

import "github.com/jonathan/internship-assistant/internal/types"

// CategoryKeywords is one row of the category table: a category and its keywords in match order.
type CategoryKeywords struct {
	Category types.Category
	Keywords []string
}

// categoryTable is evaluated top to bottom. Keyword order matters within a row: a resume skill
// contributes only the first keyword of each row that it contains.
var categoryTable = []CategoryKeywords{
	{types.CategoryProgrammingLanguages, []string{
		"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust", "php",
		"ruby", "swift", "kotlin", "scala", "r", "matlab", "sql", "solidity",
	}},
	{types.CategoryWebFrameworks, []string{
		"react", "angular", "vue", "nodejs", "express", "django", "flask", "spring",
		"laravel", "rails", "asp.net", "fastapi", "jakarta ee", "mvc",
	}},
	{types.CategoryDatabases, []string{
		"postgresql", "mysql", "mongodb", "redis", "cassandra", "dynamodb", "sqlite",
		"oracle", "mariadb", "elasticsearch", "entity framework",
	}},
	{types.CategoryCloudPlatforms, []string{
		"aws", "azure", "gcp", "google cloud", "heroku", "digitalocean", "kubernetes",
		"docker", "terraform",
	}},
	{types.CategoryDataScience, []string{
		"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "keras", "matplotlib",
		"seaborn", "jupyter", "apache spark", "opencv", "power bi", "cnn", "deep learning",
		"machine learning", "computer vision", "image processing",
	}},
	{types.CategoryDevOps, []string{
		"git", "jenkins", "travis", "circleci", "gitlab", "github actions", "ansible",
		"puppet", "chef", "github",
	}},
	{types.CategoryBlockchain, []string{
		"ethereum", "solidity", "web3", "blockchain", "smart contracts",
	}},
	{types.CategoryAIML, []string{
		"llm", "prompt engineering", "generative ai", "artificial intelligence",
		"data mining", "statistical modeling", "shap",
	}},
}

// versionControlTools are devops keywords too common to count as devops experience on their own.
var versionControlTools = map[string]bool{
	"git":    true,
	"github": true,
	"gitlab": true,
}

// minDevOpsMatches promotes devops when only version-control tools matched.
const minDevOpsMatches = 3

// Categories returns a copy of the category table.
func Categories() []CategoryKeywords {
	out := make([]CategoryKeywords, len(categoryTable))
	for i, row := range categoryTable {
		out[i] = CategoryKeywords{
			Category: row.Category,
			Keywords: append([]string(nil), row.Keywords...),
		}
	}
	return out
}

// PromoteDevOps reports whether the collected devops matches justify tagging the devops category:
// at least one tool other than version control, or at least three matches in total.
func PromoteDevOps(matches []string) bool {
	for _, tool := range matches {
		if !versionControlTools[tool] {
			return true
		}
	}
	return len(matches) >= minDevOpsMatches
}

var experienceIndicators = map[types.ExperienceLevel][]string{
	types.EntryLevel:  {"intern", "entry", "junior", "new grad", "fresh", "trainee"},
	types.MidLevel:    {"mid", "intermediate", "experienced", "2-3 years", "3-5 years"},
	types.SeniorLevel: {"senior", "lead", "principal", "architect", "5+ years", "expert"},
}

var remoteIndicators = []string{"remote", "work from home", "distributed"}

// MentionsLevel reports whether lowercase text contains any indicator of the level.
// Indicators are plain substrings so "intern" also covers "internship".
func MentionsLevel(text string, level types.ExperienceLevel) bool {
	return containsAny(text, experienceIndicators[level])
}

// MentionsRemote reports whether lowercase text advertises remote work.
func MentionsRemote(text string) bool {
	return containsAny(text, remoteIndicators)
}
