package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_club_tool/app"
	"Gin_postgres_redis_club_tool/quiz"

	"github.com/gin-gonic/gin"
)

type QuizController struct{ *Srv }

func GetQuizController(s *Srv) *QuizController { return &QuizController{Srv: s} }

// GET /api/quiz
func (qc *QuizController) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, app.H{"questions": quiz.Questions()})
}

// POST /api/quiz/submit
// Answers come keyed by question ID. A perfect score flips quizPassed on the
// profile; anything less just reports the score.
func (qc *QuizController) Submit(c *gin.Context) {
	u, ok := app.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in struct {
		Answers map[string]int `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	answers := make(map[int]int, len(in.Answers))
	for k, v := range in.Answers {
		id, err := strconv.Atoi(k)
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": "bad question id: " + k})
			return
		}
		answers[id] = v
	}

	res := quiz.Grade(answers)
	if res.Passed && !u.QuizPassed {
		if err := qc.Repo.SetQuizPassed(c.Request.Context(), u.ID, true); err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": "could not record quiz result, try again"})
			return
		}
	}
	c.JSON(http.StatusOK, res)
}
