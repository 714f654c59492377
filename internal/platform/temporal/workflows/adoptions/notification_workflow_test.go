package adoptions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	adoptionactivities "github.com/Apurer/pawhaven-api/internal/platform/temporal/activities/adoptions"
)

func newEnv(t *testing.T) *testsuite.TestWorkflowEnvironment {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(NotificationWorkflow)
	env.RegisterActivityWithOptions(
		func(ctx context.Context, input adoptionactivities.DeliverNotificationInput) error { return nil },
		activity.RegisterOptions{Name: adoptionactivities.DeliverNotificationActivityName},
	)
	return env
}

func TestNotificationWorkflow_Delivers(t *testing.T) {
	env := newEnv(t)
	env.OnActivity(adoptionactivities.DeliverNotificationActivityName, mock.Anything, adoptionactivities.DeliverNotificationInput{NotificationID: "n-1"}).
		Return(nil).Once()

	env.ExecuteWorkflow(NotificationWorkflow, NotificationWorkflowInput{NotificationID: "n-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}

func TestNotificationWorkflow_RetriesThenSucceeds(t *testing.T) {
	env := newEnv(t)
	env.OnActivity(adoptionactivities.DeliverNotificationActivityName, mock.Anything, mock.Anything).
		Return(errors.New("smtp unavailable")).Twice()
	env.OnActivity(adoptionactivities.DeliverNotificationActivityName, mock.Anything, mock.Anything).
		Return(nil).Once()

	env.ExecuteWorkflow(NotificationWorkflow, NotificationWorkflowInput{NotificationID: "n-2"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}

func TestNotificationWorkflow_GivesUpAfterMaxAttempts(t *testing.T) {
	env := newEnv(t)
	env.OnActivity(adoptionactivities.DeliverNotificationActivityName, mock.Anything, mock.Anything).
		Return(errors.New("smtp unavailable")).Times(5)

	env.ExecuteWorkflow(NotificationWorkflow, NotificationWorkflowInput{NotificationID: "n-3"})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}
