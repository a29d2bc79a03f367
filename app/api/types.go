package api

import (
	"gradstats/app/analysis"
	"gradstats/app/database"
	"gradstats/app/tasks"
)

type Handler struct {
	applicants     database.ApplicantRepository
	cache          *analysis.Cache
	scheduler      tasks.TaskSchedulerInterface
	newPullTask    func() tasks.TaskInterface
	newRefreshTask func() tasks.TaskInterface
}

func NewHandler(applicants database.ApplicantRepository, cache *analysis.Cache,
	scheduler tasks.TaskSchedulerInterface,
	newPullTask, newRefreshTask func() tasks.TaskInterface) *Handler {
	return &Handler{
		applicants:     applicants,
		cache:          cache,
		scheduler:      scheduler,
		newPullTask:    newPullTask,
		newRefreshTask: newRefreshTask,
	}
}
