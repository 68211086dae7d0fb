package tuning

// Default returns a complete tuning Config with the current production
// values. Used when no tuning file is supplied and as the reference shape
// for configs/tuning.example.yaml.
func Default() *Config {
	cfg := &Config{
		Version: "2026-02-01",

		Match: MatchConfig{Threshold: 90},

		People: PeopleConfig{
			Seniority: PersonPillar{
				Weight: 100,
				Components: map[string]*Component{
					"c_suite": {
						Keywords: "ceo, cto, coo, cfo, cmo, chief executive, chief technology, chief operating, chief marketing, founder, co-founder, president, owner",
						Score:    100,
					},
					"vp": {
						Keywords: "vp, svp, evp, vice president",
						Score:    85,
					},
					"director": {
						Keywords: "director, head of",
						Score:    70,
					},
					"manager": {
						Keywords: "manager, lead",
						Score:    50,
					},
					"individual_contributor": {
						Keywords: "analyst, specialist, coordinator, associate",
						Score:    25,
					},
					"senior_modifier": {
						Keywords: "sr, senior, principal",
						Modifier: 10,
					},
					"junior_modifier": {
						Keywords: "jr, junior, intern, assistant, trainee",
						Modifier: -15,
					},
				},
			},
			Domain: PersonPillar{
				Weight: 70,
				Components: map[string]*Component{
					"user_acquisition": {
						Keywords: "user acquisition, ua, performance marketing, growth marketing, paid media",
						Score:    100,
					},
					"monetization": {
						Keywords: "monetization, ad monetization, admon, revenue",
						Score:    90,
					},
					"marketing": {
						Keywords: "marketing, brand, community",
						Score:    70,
					},
					"product": {
						Keywords: "product, live ops, liveops, game design",
						Score:    55,
					},
					"business_development": {
						Keywords: "business development, bizdev, partnerships, publishing",
						Score:    50,
					},
					"data": {
						Keywords: "analytics, data science, data",
						Score:    40,
					},
				},
			},
			Warmth: WarmthPillar{
				Weight: 50,
				Vectors: map[string]WarmthVector{
					"meeting":  {Points: 10, HalfLifeDays: 180},
					"response": {Points: 7, HalfLifeDays: 180},
					"engaged":  {Points: 5, HalfLifeDays: 90},
				},
			},
			OneOffs: map[string]*Component{
				"recruiter": {
					Keywords: "recruiter, talent acquisition, talent partner, sourcer",
					Score:    5,
				},
				"investor": {
					Keywords: "investor, venture, portfolio manager",
					Score:    10,
				},
				"press": {
					Keywords: "journalist, press, editor, reporter",
					Score:    5,
				},
				"student": {
					Keywords: "student, professor, lecturer",
					Score:    2,
				},
			},
		},

		Company: CompanyConfig{
			Alignment: AlignmentPillar{
				Weight:           60,
				DevPoints:        10,
				F2PPoints:        8,
				MobilePoints:     7,
				FreshPoints:      5,
				FreshMaxAgeYears: 3,
			},
			Budget: BudgetPillar{
				Weight:          100,
				RevenuePoints:   10,
				FundingPoints:   8,
				HeadcountPoints: 5,
			},
			Demand: DemandPillar{
				Weight: 40,
				// "previous customer" must precede "customer": the latter is a
				// substring of the former.
				Stages: []FunnelStage{
					{Match: "previous customer", Points: 10, HalfLifeDays: 730},
					{Match: "stand down", Points: 10, HalfLifeDays: 730},
					{Match: "customer", Points: 8, HalfLifeDays: 365},
					{Match: "contract out", Points: 8, HalfLifeDays: 365},
					{Match: "met with", Points: 6, HalfLifeDays: 180},
					{Match: "quarterly followup", Points: 6, HalfLifeDays: 180},
					{Match: "qualified", Points: 5, HalfLifeDays: 90},
					{Match: "disco incoming", Points: 2, HalfLifeDays: 30},
				},
				Volatility: Volatility{
					MaxPoints:          7,
					RevenueWeight:      5,
					RunwayWeight:       4,
					HeadcountWeight:    3,
					RunwayHalfLifeDays: 365,
				},
				HiringPoints:       4,
				HiringHalfLifeDays: 90,
			},
		},

		Sources: SourcesConfig{
			Reliability: map[string]float64{
				"lisn":        90,
				"mtm":         60,
				"crm":         95,
				"growjo":      70,
				"sensortower": 85,
				"manual":      100,
			},
		},
	}

	// Default() must always produce a usable config.
	if err := cfg.Compile(); err != nil {
		panic(err)
	}
	return cfg
}
