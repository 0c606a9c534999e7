package services

import (
	"time"

	"github.com/Kavas-89/Task-Management-System/internal/models"
)

func (suite *ServicesTestSuite) TestAddComment_RequiresExistingTask() {
	_, err := suite.comments.Add(suite.ctx, models.NewID(404), employeeSession.UserID, "hello")
	suite.Equal("task does not exist", fieldErrors(suite, err)["taskId"])

	_, err = suite.comments.Add(suite.ctx, "", employeeSession.UserID, " ")
	fe := fieldErrors(suite, err)
	suite.Contains(fe, "taskId")
	suite.Contains(fe, "text")
}

func (suite *ServicesTestSuite) TestComments_ListForTaskAndVisibleTo() {
	mine := suite.createTask("mine", models.NewID(3))
	other := suite.createTask("other", models.NewID(2))

	for _, c := range []struct {
		task *models.Task
		text string
	}{
		{mine, "one"},
		{other, "two"},
		{mine, "three"},
	} {
		_, err := suite.comments.Add(suite.ctx, models.NewID(c.task.ID), managerSession.UserID, c.text)
		suite.Require().NoError(err)
		suite.now = suite.now.Add(time.Millisecond)
	}

	forTask, err := suite.comments.ListForTask(suite.ctx, models.NewID(mine.ID))
	suite.Require().NoError(err)
	suite.Require().Len(forTask, 2)
	suite.Equal("one", forTask[0].Text)
	suite.Equal("three", forTask[1].Text)

	visible, err := suite.comments.ListVisibleTo(suite.ctx, models.ID("3"))
	suite.Require().NoError(err)
	suite.Len(visible, 2)

	none, err := suite.comments.ListVisibleTo(suite.ctx, models.NewID(1))
	suite.Require().NoError(err)
	suite.Empty(none)
}
