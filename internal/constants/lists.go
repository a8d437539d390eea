package constants

// Bundle statuses.
const (
	BundleReadyForCutting = "ready_for_cutting"
	BundleCutReady        = "cut_ready"
)

// Work item statuses.
const (
	WorkWaiting    = "waiting"
	WorkReady      = "ready"
	WorkAssigned   = "assigned"
	WorkInProgress = "in_progress"
	WorkCompleted  = "completed"
)

const PriorityNormal = "normal"

// SizeFree labels bundles of an article cut without a size breakdown.
const SizeFree = "FREE"

// Template scopes.
const (
	ArticleTypeUniversal = "universal"
	ArticleTypeCustom    = "custom"
)

// Canonical skill levels.
const (
	SkillEasy   = "easy"
	SkillMedium = "medium"
	SkillHard   = "hard"
)

var (
	// template ids that apply to every bundle regardless of articleType
	UniversalTemplateIDs = map[string]bool{
		"universal":          true,
		"universal-template": true,
	}

	MachineTypes = map[string]bool{
		"cutting":      true,
		"overlock":     true,
		"flatlock":     true,
		"singleNeedle": true,
		"doubleNeedle": true,
		"buttonhole":   true,
		"buttonAttach": true,
		"kansai":       true,
		"manual":       true,
		"iron":         true,
	}

	// alias -> canonical skill level
	SkillLevels = map[string]string{
		"easy":         SkillEasy,
		"beginner":     SkillEasy,
		"medium":       SkillMedium,
		"intermediate": SkillMedium,
		"hard":         SkillHard,
		"high":         SkillHard,
		"advanced":     SkillHard,
		"expert":       SkillHard,
	}

	WorkStatuses = map[string]bool{
		WorkWaiting:    true,
		WorkReady:      true,
		WorkAssigned:   true,
		WorkInProgress: true,
		WorkCompleted:  true,
	}

	// transitions allowed from outside the expander
	WorkTransitions = map[string][]string{
		WorkWaiting:    {WorkReady},
		WorkReady:      {WorkAssigned},
		WorkAssigned:   {WorkInProgress, WorkCompleted, WorkReady},
		WorkInProgress: {WorkCompleted},
	}
)

// CanTransition reports whether a work item may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range WorkTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
