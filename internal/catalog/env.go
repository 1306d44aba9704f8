package catalog

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment selects the URL table
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// LoadEnv reads the optional .env files into the process environment.
// Variables already set are kept. A malformed file is logged and returned;
// the process environment still applies.
func LoadEnv(files ...string) error {
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		log.Printf("Warning: failed to load %s: %v", strings.Join(present, ", "), err)
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// CurrentEnvironment resolves PORTFOLIO_ENV, then the USE_DEV_CONFIG flag.
// Production is the default.
func CurrentEnvironment() Environment {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PORTFOLIO_ENV"))) {
	case "development", "dev":
		return Development
	case "production", "prod":
		return Production
	}
	if os.Getenv("USE_DEV_CONFIG") == "true" {
		return Development
	}
	return Production
}

// TableauViz links one published dashboard
type TableauViz struct {
	Code  string `json:"code"`
	Host  string `json:"host"`
	Embed string `json:"embed"`
}

// URLTable holds the third-party URLs consumed by pages embedding external
// content.
type URLTable struct {
	EmailRedactor struct {
		AppURL string `json:"appUrl"`
	} `json:"emailRedactor"`
	GitHub struct {
		ProjectPortfolio       string `json:"projectPortfolio"`
		EmailPrivacyRedactorAI string `json:"emailPrivacyRedactorAI"`
		HRAnalyticsDashboard   string `json:"hrAnalyticsDashboard"`
		ModernHRDashboard      string `json:"modernHRDashboard"`
		TitanicSurvivorStory   string `json:"titanicSurvivorStory"`
	} `json:"github"`
	Tableau struct {
		APIScript   string     `json:"apiScript"`
		HRAnalytics TableauViz `json:"hrAnalytics"`
		ModernHR    TableauViz `json:"modernHR"`
		Titanic     TableauViz `json:"titanic"`
	} `json:"tableau"`
	OfficeEmbedBase string `json:"officeEmbedBase"`
	PGCalc          struct {
		GiftCalcsDemo string `json:"giftCalcsDemo"`
	} `json:"pgCalc"`
	Resume struct {
		Portfolio string `json:"portfolio"`
		LinkedIn  string `json:"linkedin"`
		Companies struct {
			Dynamo string `json:"dynamo"`
			MFS    string `json:"mfs"`
			PGCalc string `json:"pgcalc"`
		} `json:"companies"`
	} `json:"resume"`
}

const (
	githubRoot  = "https://github.com/koval-vlad/"
	tableauRepo = githubRoot + "Tableau-Projects/tree/master/"
	tableauHost = "https://public.tableau.com/app/profile/vlad.koval/viz/"
	vizQuery    = "?:language=en-US&:sid=&:redirect=auth&:display_count=n&:origin=viz_share_link"
)

// URLsFor returns the URL table for env. The environments differ only in
// the email redactor app URL.
func URLsFor(env Environment) URLTable {
	var t URLTable

	t.EmailRedactor.AppURL = "https://email-privacy-redactor-ai-blue-wood.reflex.run/"
	if env == Development {
		t.EmailRedactor.AppURL = "http://localhost:3000/"
	}

	t.GitHub.ProjectPortfolio = githubRoot + "Project-Portfolio"
	t.GitHub.EmailPrivacyRedactorAI = githubRoot + "EmailPrivacyRedactorAI"
	t.GitHub.HRAnalyticsDashboard = tableauRepo + "HR%20Analytics%20Dashboard"
	t.GitHub.ModernHRDashboard = tableauRepo + "Modern%20HR%20Dashboard"
	t.GitHub.TitanicSurvivorStory = tableauRepo + "Who%20Survived%20Titanic%20Tragedy%20Story"

	t.Tableau.APIScript = "https://public.tableau.com/javascripts/api/tableau.embedding.3.latest.min.js"
	t.Tableau.HRAnalytics = TableauViz{
		Code:  t.GitHub.HRAnalyticsDashboard,
		Host:  tableauHost + "HRAnalyticsDashboard_17688740732590/HRDashboard",
		Embed: "https://public.tableau.com/views/HRAnalyticsDashboard_17688740732590/HRDashboard" + vizQuery,
	}
	t.Tableau.ModernHR = TableauViz{
		Code:  t.GitHub.ModernHRDashboard,
		Host:  tableauHost + "ModernHRDashboard_17655530147630/HRDashboard",
		Embed: "https://public.tableau.com/views/ModernHRDashboard_17655530147630/HRDashboard" + vizQuery,
	}
	t.Tableau.Titanic = TableauViz{
		Code:  t.GitHub.TitanicSurvivorStory,
		Host:  tableauHost + "WhoSurvivedTitanicTragedyStory/WhoSurvivedTitanicTragedyStory",
		Embed: "https://public.tableau.com/shared/D5J3ZZ2CH?:display_count=n&:origin=viz_share_link",
	}

	t.OfficeEmbedBase = "https://view.officeapps.live.com/op/embed.aspx"
	t.PGCalc.GiftCalcsDemo = "https://www.pgcalc.com/service/giftcalcs-demo"

	t.Resume.Portfolio = "https://koval-vlad-portfolio.vercel.app"
	t.Resume.LinkedIn = "https://www.linkedin.com/in/vlad-koval-614976a4/"
	t.Resume.Companies.Dynamo = "https://www.dynamosoftware.com"
	t.Resume.Companies.MFS = "https://www.mfs.com"
	t.Resume.Companies.PGCalc = "https://www.pgcalc.com"
	return t
}
