package repository

import "interview_prep_backend/internal/model"

// defaultBank 内置题库。configs/questions.yaml 缺失或非法时兜底，
// 保证 SelectQuestions 的非空约定始终成立。
func defaultBank() *model.QuestionBank {
	return &model.QuestionBank{
		Technical: model.TechnicalBank{
			Roles: map[string][]model.BankQuestion{
				string(model.RoleBackend): {
					{Text: "Describe a backend system you built or maintained. What did it do and which parts were you responsible for?", Category: "System Design"},
					{Text: "How do you approach caching in a backend service, and what problems can a cache introduce?", Category: "Performance"},
					{Text: "Walk through how you would design an API endpoint that must stay fast under heavy load.", Category: "API Design"},
					{Text: "How do you make sure a database schema change ships safely to production?", Category: "Databases"},
				},
				string(model.RoleFrontend): {
					{Text: "Describe a UI feature you implemented that required careful state management. How did you structure it?", Category: "State Management"},
					{Text: "How do you keep a web page responsive when it has to render a large amount of data?", Category: "Performance"},
					{Text: "What is your approach to cross-browser compatibility issues?", Category: "Compatibility"},
					{Text: "How do you decide what to cover with component tests versus end-to-end tests?", Category: "Testing"},
				},
				string(model.RoleFullstack): {
					{Text: "Describe a feature you delivered end to end, from database to UI. How did you split the work?", Category: "System Design"},
					{Text: "How do you design the contract between frontend and backend so both sides can evolve?", Category: "API Design"},
					{Text: "Tell me about a performance problem that crossed the frontend/backend boundary. How did you find it?", Category: "Performance"},
					{Text: "How do you keep shared validation logic consistent between client and server?", Category: "Architecture"},
				},
				string(model.RoleDevOps): {
					{Text: "Describe a deployment pipeline you built or improved. What did it automate?", Category: "CI/CD"},
					{Text: "How do you approach monitoring and alerting for a service you operate?", Category: "Observability"},
					{Text: "Walk through how you would debug a production incident where latency suddenly spikes.", Category: "Incident Response"},
					{Text: "How do you manage infrastructure configuration so environments stay reproducible?", Category: "Infrastructure"},
				},
				string(model.RoleData): {
					{Text: "Describe an analysis you did that changed a decision. What data did you use and how did you validate it?", Category: "Analysis"},
					{Text: "How do you handle missing or inconsistent data in a dataset before analysis?", Category: "Data Quality"},
					{Text: "Walk through how you would design a dashboard for a non-technical stakeholder.", Category: "Communication"},
					{Text: "How do you decide whether a difference in metrics is meaningful or just noise?", Category: "Statistics"},
				},
			},
			Generic: []model.BankQuestion{
				{Text: "Describe a technically challenging project you worked on. What made it hard?", Category: "General"},
				{Text: "How do you approach testing your own work before handing it over?", Category: "Testing"},
				{Text: "Tell me about a tool or technology you learned recently. How did you pick it up?", Category: "Learning"},
			},
		},
		Behavioral: model.BehavioralBank{
			Common: []model.BankQuestion{
				{Text: "Tell me about a time you disagreed with a teammate about a technical decision. How was it resolved?", Category: "Teamwork"},
				{Text: "Describe a situation where something you shipped broke. What did you do?", Category: "Ownership"},
				{Text: "Tell me about a deadline you struggled to meet. What happened and what did you learn?", Category: "Time Management"},
			},
			Levels: map[string][]model.BankQuestion{
				string(model.LevelJunior): {
					{Text: "Describe a time you were stuck on a problem. How did you decide when to ask for help?", Category: "Growth"},
				},
				string(model.LevelMiddle): {
					{Text: "Tell me about a time you helped a less experienced colleague get unstuck. What was your approach?", Category: "Mentoring"},
				},
				string(model.LevelSenior): {
					{Text: "Describe a technical direction you set for a team. How did you get buy-in?", Category: "Leadership"},
					{Text: "Tell me about a time you had to push back on a product requirement for technical reasons.", Category: "Influence"},
				},
			},
		},
	}
}
