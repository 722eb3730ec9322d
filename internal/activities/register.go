package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.GradeActivity)
	w.RegisterActivity(a.FeedbackActivity)
	w.RegisterActivity(a.CheckPlagiarismActivity)
}
