package catalog

func defaultExperiences() []Experience {
	return []Experience{
		{
			Key:         "1",
			Name:        "Fresher or Entry Level",
			Description: "0-2 years experience",
			Difficulty:  "basic concepts, definitions, simple scenarios",
		},
		{
			Key:         "2",
			Name:        "Mid-Level",
			Description: "2-5 years experience",
			Difficulty:  "practical application, problem-solving, some design",
		},
		{
			Key:         "3",
			Name:        "Senior",
			Description: "5+ years experience",
			Difficulty:  "complex design, architecture, trade-offs, leadership",
		},
	}
}

func defaultRoles() []Role {
	return []Role{
		{
			Key:   "1",
			Name:  "Software Engineer",
			Focus: "technical skills, problem-solving, coding concepts, system design, algorithms, data structures",
			Topics: []string{
				"data structures and algorithms",
				"system design and architecture",
				"databases (SQL and NoSQL)",
				"API design and REST principles",
				"code optimization and performance",
				"version control and Git",
				"debugging and troubleshooting",
				"object-oriented programming",
				"testing and quality assurance",
				"cloud computing and deployment",
			},
		},
		{
			Key:   "2",
			Name:  "Sales Representative",
			Focus: "communication, persuasion, customer handling, closing techniques",
			Topics: []string{
				"handling rejection and objections",
				"sales process and methodology",
				"building client relationships",
				"closing techniques",
				"pipeline management",
				"negotiation skills",
				"customer needs analysis",
				"sales metrics and KPIs",
				"competitive positioning",
				"account management",
			},
		},
		{
			Key:   "3",
			Name:  "Retail Associate",
			Focus: "customer service, problem-solving, teamwork, handling difficult situations",
			Topics: []string{
				"customer service excellence",
				"handling difficult customers",
				"teamwork and collaboration",
				"time management during busy periods",
				"upselling and cross-selling",
				"product knowledge",
				"conflict resolution",
				"store presentation and merchandising",
				"cash handling and transactions",
				"problem-solving on the spot",
			},
		},
		{
			Key:   "4",
			Name:  "Product Manager",
			Focus: "product strategy, stakeholder management, prioritization, metrics, technical understanding",
			Topics: []string{
				"product roadmap and prioritization",
				"stakeholder management",
				"product metrics and KPIs",
				"user research and validation",
				"working with engineering teams",
				"product launch strategy",
				"competitive analysis",
				"technical debt management",
				"feature scoping and trade-offs",
				"data-driven decision making",
			},
		},
		{
			Key:   "5",
			Name:  "Data Analyst",
			Focus: "analytical thinking, data interpretation, tools/technologies, business impact, SQL, statistics",
			Topics: []string{
				"SQL and database querying",
				"statistical analysis methods",
				"data cleaning and preparation",
				"data visualization techniques",
				"A/B testing and experimentation",
				"business intelligence tools",
				"communicating insights to stakeholders",
				"predictive modeling",
				"data quality and validation",
				"analytical problem-solving",
			},
		},
	}
}
