package batch

import (
	"path/filepath"

	"github.com/rs/xid"
	"github.com/voxelfit/batchfit/pkg/imagedata"
	"github.com/voxelfit/batchfit/pkg/models"
	"github.com/voxelfit/batchfit/pkg/noise"
	"github.com/voxelfit/batchfit/pkg/processing"
	"github.com/voxelfit/batchfit/pkg/profile"
	"github.com/voxelfit/batchfit/pkg/prom"
	"github.com/voxelfit/batchfit/pkg/selection"
	"github.com/voxelfit/batchfit/pkg/span"
	"github.com/voxelfit/batchfit/pkg/subject"
	"go.uber.org/zap"
)

// Runner drives one full batch fit: discovery, selection, cascade model
// resolution and chunked processing per subject and model.
type Runner struct {
	profile     profile.BatchProfile
	selection   selection.Selection
	strategy    *processing.VoxelRange
	worker      processing.Worker
	estimator   noise.Estimator
	recalculate bool
	runID       string
}

// NewRunner binds the profile (auto resolved when profileName is empty) to
// the data root and prepares a runner. A nil selection selects all
// subjects.
func NewRunner(dataRoot, profileName string, sel selection.Selection, worker processing.Worker,
	nmrVoxels int, recalculate bool) (*Runner, error) {

	prof, err := profile.ResolveProfile(profileName, dataRoot)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		sel = selection.AllSubjects{}
	}

	return &Runner{
		profile:     prof,
		selection:   sel,
		strategy:    processing.NewVoxelRange(nmrVoxels),
		worker:      worker,
		estimator:   noise.NewBackgroundEstimator(0),
		recalculate: recalculate,
		runID:       xid.New().String(),
	}, nil
}

// Profile returns the bound batch profile, so callers can apply output
// policy overrides before Run.
func (r *Runner) Profile() profile.BatchProfile {
	return r.profile
}

// Run fits every resolved leaf model for every selected subject. Failures
// of one subject/model run are recorded in the returned map (nil entries
// mean success) and do not stop the rest of the batch; configuration
// failures abort with an error.
func (r *Runner) Run() (map[string]map[string]error, error) {
	logger := zap.S().With("runId", r.runID, "rootDir", r.profile.RootDir())

	subjects, err := r.profile.GetSubjects()
	if err != nil {
		return nil, err
	}
	selected, err := r.selection.GetSelection(subjects)
	if err != nil {
		return nil, err
	}

	modelNames, err := models.ResolveModelNames(r.profile.ModelsToFit())
	if err != nil {
		return nil, err
	}

	prom.SubjectsDiscovered.Set(float64(len(selected)))
	updateStatus(func(s *Status) {
		*s = Status{
			RunID:         r.runID,
			RootDir:       r.profile.RootDir(),
			ProfileName:   r.profile.Name(),
			TotalSubjects: len(selected),
			Running:       true,
		}
	})
	defer updateStatus(func(s *Status) {
		s.Running = false
		s.CurrentSubject = ""
		s.CurrentModel = ""
	})

	logger.Infow("starting batch fit",
		"profile", r.profile.Name(), "subjects", len(selected), "models", modelNames)

	runSpan := span.NewRunSpan(r.runID)
	runSpan.Start("batch_fit")
	defer runSpan.Finish()

	results := make(map[string]map[string]error)
	for _, subj := range selected {
		results[subj.SubjectID()] = r.runSubject(subj, modelNames, runSpan, logger)
	}
	return results, nil
}

func (r *Runner) runSubject(subj subject.Info, modelNames []string,
	parent *span.Span, logger *zap.SugaredLogger) map[string]error {

	perModel := make(map[string]error)
	subjectSpan := parent.NewSubjectSpan(subj.SubjectID())
	subjectSpan.Start("subject")
	defer subjectSpan.Finish()

	updateStatus(func(s *Status) { s.CurrentSubject = subj.SubjectID() })

	data, err := subj.ProblemData()
	if err != nil {
		// protocol and mask problems are per subject conditions, the rest
		// of the batch keeps running
		logger.Errorw("assembling problem data failed",
			"subject", subj.SubjectID(), "err", err)
		for _, name := range modelNames {
			perModel[name] = err
			prom.ModelFitFailures.Inc()
		}
		updateStatus(func(s *Status) { s.FailedFits += len(modelNames) })
		return perModel
	}

	r.logEstimatedNoiseStd(subj, data, logger)

	for _, modelName := range modelNames {
		perModel[modelName] = r.runModel(subj, data, modelName, subjectSpan, logger)
	}
	return perModel
}

func (r *Runner) runModel(subj subject.Info, data imagedata.ProblemData, modelName string,
	parent *span.Span, logger *zap.SugaredLogger) error {

	modelSpan := parent.NewModelSpan(modelName)
	modelSpan.Start("fit_model")
	defer modelSpan.Finish()

	updateStatus(func(s *Status) { s.CurrentModel = modelName })

	model, err := models.GetModel(modelName)
	if err != nil {
		return r.recordFailure(subj, modelName, err, logger)
	}

	if requirer, ok := model.(models.ProtocolRequirer); ok {
		if simple, ok := subj.(*subject.SimpleInfo); ok {
			proto, err := simple.Protocol()
			if err != nil {
				return r.recordFailure(subj, modelName, err, logger)
			}
			if err := proto.ValidateForModel(modelName, requirer.RequiredProtocolColumns()); err != nil {
				return r.recordFailure(subj, modelName, err, logger)
			}
		}
	}

	outputPath := filepath.Join(subj.OutputDir(), modelName)
	if _, err := r.strategy.Run(model, data, outputPath, r.recalculate, r.worker); err != nil {
		return r.recordFailure(subj, modelName, err, logger)
	}

	prom.ModelFitsCompleted.Inc()
	updateStatus(func(s *Status) { s.CompletedFits++ })
	logger.Infow("model fit complete", "subject", subj.SubjectID(), "model", modelName)
	return nil
}

func (r *Runner) recordFailure(subj subject.Info, modelName string, err error, logger *zap.SugaredLogger) error {
	prom.ModelFitFailures.Inc()
	updateStatus(func(s *Status) { s.FailedFits++ })
	logger.Errorw("model fit failed",
		"subject", subj.SubjectID(), "model", modelName, "err", err)
	return err
}

// logEstimatedNoiseStd estimates the noise std from the background voxels
// when a subject asked for automatic noise detection and the problem data
// exposes a signal volume. Estimation failure is a recoverable condition
// and only logged.
func (r *Runner) logEstimatedNoiseStd(subj subject.Info, data imagedata.ProblemData, logger *zap.SugaredLogger) {
	simple, ok := subj.(*subject.SimpleInfo)
	if !ok || !simple.NoiseStd().Auto {
		return
	}
	provider, ok := data.(imagedata.SignalProvider)
	if !ok {
		return
	}

	std, err := r.estimator.Estimate(provider.Signal(), data.Mask())
	if err != nil {
		logger.Infow("automatic noise std estimation not possible",
			"subject", subj.SubjectID(), "err", err)
		return
	}
	logger.Infow("estimated noise std from background",
		"subject", subj.SubjectID(), "noiseStd", std)
}
