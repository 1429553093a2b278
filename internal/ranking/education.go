package ranking

import "github.com/jonathan/internship-assistant/internal/types"

// Education scoring constants.
const (
	noEducationRequiredScore = 95.0
	missingDegreeScore       = 30.0
	oneDegreeBelowScore      = 80.0
	farBelowDegreeScore      = 60.0
)

// notSpecified is reported as the required education when the job has none.
const notSpecified = "Not specified"

// educationScore compares the resume's highest level against the job's required degree.
// A resume without a degree cannot meet any requirement, whatever its school level.
func educationScore(resume types.ResumeProfile, job types.JobRequirementProfile) float64 {
	if !job.EducationRequired {
		return noEducationRequiredScore
	}
	if !resume.HasDegree {
		return missingDegreeScore
	}

	have := resume.EducationLevel.Ordinal()
	want := job.DegreeLevel.Ordinal()
	if want < 0 {
		want = types.Bachelor.Ordinal()
	}

	switch {
	case have >= want:
		return 100
	case have == want-1:
		return oneDegreeBelowScore
	default:
		return farBelowDegreeScore
	}
}

func educationDetails(resume types.ResumeProfile, job types.JobRequirementProfile) types.EducationDetails {
	required := notSpecified
	if job.EducationRequired {
		required = string(job.DegreeLevel)
	}
	return types.EducationDetails{
		ResumeLevel:         resume.EducationLevel,
		RequiredEducation:   required,
		EducationRequired:   job.EducationRequired,
		CertificationsCount: resume.CertificationsCount,
		Languages:           resume.Languages.Sorted(),
	}
}
