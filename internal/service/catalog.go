package service

import (
	"context"

	"go.uber.org/zap"

	"smart-job-bot/internal/model"
	"smart-job-bot/internal/repository"
)

// CatalogService wraps vacancy ingestion. Records arrive already
// structured, either from the operator surface or an external feed.
type CatalogService struct {
	vacancies *repository.VacancyRepository
	log       *zap.Logger
}

func NewCatalogService(vacancies *repository.VacancyRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{vacancies: vacancies, log: log}
}

// Ingest stores the vacancy; a duplicate natural key is a silent no-op.
func (s *CatalogService) Ingest(ctx context.Context, vacancy *model.Vacancy) (bool, error) {
	created, err := s.vacancies.Ingest(ctx, vacancy)
	if err != nil {
		return false, err
	}
	if created {
		s.log.Info("vacancy ingested",
			zap.Uint("id", vacancy.ID),
			zap.String("title", vacancy.Title),
			zap.String("source", vacancy.Source))
	} else {
		s.log.Debug("duplicate vacancy skipped",
			zap.String("title", vacancy.Title),
			zap.String("company", vacancy.Company))
	}
	return created, nil
}

// IngestText parses the operator's line format and ingests the result.
func (s *CatalogService) IngestText(ctx context.Context, text string) (*model.Vacancy, bool, error) {
	vacancy, err := ParseVacancyText(text)
	if err != nil {
		return nil, false, err
	}
	created, err := s.Ingest(ctx, vacancy)
	if err != nil {
		return nil, false, err
	}
	return vacancy, created, nil
}

// SeedSamples loads a handful of demo postings so a fresh install has
// something to show. Re-running is harmless thanks to the natural key.
func (s *CatalogService) SeedSamples(ctx context.Context) error {
	for i := range sampleVacancies {
		vacancy := sampleVacancies[i]
		if _, err := s.Ingest(ctx, &vacancy); err != nil {
			return err
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

var sampleVacancies = []model.Vacancy{
	{
		Title:        "Python Backend Developer",
		Company:      "Tech Innovations Inc.",
		SalaryMin:    intPtr(3000),
		SalaryMax:    intPtr(5000),
		Currency:     "USD",
		Location:     "Remote / Moscow",
		WorkFormat:   "remote",
		Description:  "We are looking for an experienced backend engineer with Django or FastAPI. You will build and maintain microservices, improve performance and optimize databases.",
		Requirements: "Python, SQL, Docker, production experience 3+ years",
		ApplyURL:     "https://example.com/apply/python-dev",
		Contacts:     "hr@techinnovations.com",
		Tags:         "python,backend,django,postgresql",
		Industry:     "FinTech",
		Role:         "backend",
		Level:        "middle",
		Source:       "sample",
	},
	{
		Title:        "Frontend React Developer",
		Company:      "Web Solutions LLC",
		SalaryMin:    intPtr(2500),
		SalaryMax:    intPtr(4000),
		Currency:     "USD",
		Location:     "Remote",
		WorkFormat:   "remote",
		Description:  "Join our frontend team to build amazing user interfaces with React.",
		Requirements: "JavaScript, React, TypeScript, CSS, 2+ years experience",
		ApplyURL:     "https://example.com/apply/react-dev",
		Contacts:     "jobs@websolutions.com",
		Tags:         "react,frontend,javascript,typescript",
		Industry:     "SaaS",
		Role:         "frontend",
		Level:        "middle",
		Source:       "sample",
	},
	{
		Title:        "DevOps Engineer",
		Company:      "Cloud Systems",
		SalaryMin:    intPtr(4000),
		SalaryMax:    intPtr(6000),
		Currency:     "USD",
		Location:     "Remote / Berlin",
		WorkFormat:   "remote",
		Description:  "We need a DevOps engineer to manage our cloud infrastructure.",
		Requirements: "AWS, Docker, Kubernetes, CI/CD, Terraform, 4+ years experience",
		ApplyURL:     "https://example.com/apply/devops",
		Contacts:     "careers@cloudsystems.com",
		Tags:         "devops,aws,docker,kubernetes",
		Industry:     "Cloud",
		Role:         "devops",
		Level:        "senior",
		Source:       "sample",
	},
	{
		Title:        "UI/UX Designer",
		Company:      "Creative Agency",
		SalaryMin:    intPtr(2000),
		SalaryMax:    intPtr(3500),
		Currency:     "USD",
		Location:     "Remote / Warsaw",
		WorkFormat:   "remote",
		Description:  "Looking for a talented designer to create beautiful user interfaces.",
		Requirements: "Figma, Adobe Creative Suite, UI/UX design, 2+ years experience",
		ApplyURL:     "https://example.com/apply/designer",
		Contacts:     "design@creativeagency.com",
		Tags:         "design,ui,ux,figma",
		Industry:     "Design",
		Role:         "design",
		Level:        "middle",
		Source:       "sample",
	},
	{
		Title:        "Data Scientist",
		Company:      "AI Research Lab",
		SalaryMin:    intPtr(4500),
		SalaryMax:    intPtr(7000),
		Currency:     "USD",
		Location:     "Remote",
		WorkFormat:   "remote",
		Description:  "Join our AI team to work on cutting-edge machine learning projects.",
		Requirements: "Python, Machine Learning, TensorFlow, SQL, 3+ years experience",
		ApplyURL:     "https://example.com/apply/data-scientist",
		Contacts:     "research@ailab.com",
		Tags:         "data-science,python,machine-learning,ai",
		Industry:     "AI",
		Role:         "ai",
		Level:        "senior",
		Source:       "sample",
	},
	{
		Title:        "Product Manager",
		Company:      "SaaS Startup",
		SalaryMin:    intPtr(4000),
		SalaryMax:    intPtr(6500),
		Currency:     "USD",
		Location:     "Remote / London",
		WorkFormat:   "remote",
		Description:  "We are looking for a Product Manager to drive our product strategy.",
		Requirements: "Product management, Agile, User research, 4+ years experience",
		ApplyURL:     "https://example.com/apply/pm",
		Contacts:     "products@saasstartup.com",
		Tags:         "product,management,agile",
		Industry:     "SaaS",
		Role:         "product",
		Level:        "senior",
		Source:       "sample",
	},
	{
		Title:        "Full Stack Developer",
		Company:      "Digital Agency",
		SalaryMin:    intPtr(3500),
		SalaryMax:    intPtr(5500),
		Currency:     "USD",
		Location:     "Remote",
		WorkFormat:   "remote",
		Description:  "Looking for a full stack developer to work on diverse web projects.",
		Requirements: "JavaScript, React, Node.js, MongoDB, 3+ years experience",
		ApplyURL:     "https://example.com/apply/fullstack",
		Contacts:     "dev@digitalagency.com",
		Tags:         "fullstack,react,node,mongodb",
		Industry:     "Web Development",
		Role:         "fullstack",
		Level:        "middle",
		Source:       "sample",
	},
}
