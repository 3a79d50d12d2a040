package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	TasksCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskquest_tasks_completed_total",
			Help: "Tasks marked completed",
		},
	)
	ExpAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskquest_exp_awarded_total",
			Help: "Experience points credited for completed tasks",
		},
	)
	ExpPenalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskquest_exp_penalized_total",
			Help: "Experience points actually deducted by penalties",
		},
	)
	DailyTasksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "taskquest_daily_tasks_created_total",
			Help: "Task instances generated from daily templates",
		},
	)
	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskquest_job_runs_total",
			Help: "Batch job invocations by outcome",
		},
		[]string{"job", "status"},
	)
	JobUserFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskquest_job_user_failures_total",
			Help: "Per-user failures inside batch jobs",
		},
		[]string{"job"},
	)
)

func init() {
	prometheus.MustRegister(TasksCompleted)
	prometheus.MustRegister(ExpAwarded)
	prometheus.MustRegister(ExpPenalized)
	prometheus.MustRegister(DailyTasksCreated)
	prometheus.MustRegister(JobRuns)
	prometheus.MustRegister(JobUserFailures)
}
