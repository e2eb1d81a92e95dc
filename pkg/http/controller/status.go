package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/voxelfit/batchfit/pkg/batch"
	"github.com/voxelfit/batchfit/pkg/dto"
)

// Status reports the progress of the current batch run.
func Status(c *gin.Context) {
	status := batch.GetStatus()
	c.JSON(200, dto.StatusResponse{
		Success:        true,
		RunID:          status.RunID,
		RootDir:        status.RootDir,
		ProfileName:    status.ProfileName,
		TotalSubjects:  status.TotalSubjects,
		CurrentSubject: status.CurrentSubject,
		CurrentModel:   status.CurrentModel,
		CompletedFits:  status.CompletedFits,
		FailedFits:     status.FailedFits,
		Running:        status.Running,
	})
}
