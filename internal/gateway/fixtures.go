package gateway

import (
	"context"
	"fmt"

	"dermoscan-be/internal/model"
)

// BypassAddress disables a backend: configuring a gateway address as the
// literal "None" substitutes the fixture implementation below, so the app
// runs detached from its backends during development and testing.
const BypassAddress = "None"

type fixtureAuthGateway struct{}

var _ IAuthGateway = fixtureAuthGateway{}

// NewFixtureAuthGateway accepts any non-empty credential pair.
func NewFixtureAuthGateway() IAuthGateway {
	return fixtureAuthGateway{}
}

func (fixtureAuthGateway) SignIn(_ context.Context, username, passwordHash string) (*SignInResult, error) {
	if username == "" || passwordHash == "" {
		return &SignInResult{Success: false}, nil
	}
	return &SignInResult{Success: true, DisplayName: "Dr. Fixture"}, nil
}

func (fixtureAuthGateway) CreateAccount(context.Context, string, string, string, string) (bool, error) {
	return true, nil
}

func (fixtureAuthGateway) RequestPasswordReset(context.Context, string) (bool, error) {
	return true, nil
}

type fixtureDirectoryGateway struct{}

var _ IDirectoryGateway = fixtureDirectoryGateway{}

// NewFixtureDirectoryGateway serves a fixed 19-row directory.
func NewFixtureDirectoryGateway() IDirectoryGateway {
	return fixtureDirectoryGateway{}
}

var fixturePatients = []model.PatientRecord{
	{RefID: "ISIC_0034525", Name: "Jane Doe", PatientID: "P-0001", Samples: 5, Date: "2023-01-12"},
	{RefID: "ISIC_0034526", Name: "John Smith", PatientID: "P-0002", Samples: 3, Date: "2023-01-15"},
	{RefID: "ISIC_0034527", Name: "Alice Brown", PatientID: "P-0003", Samples: 2, Date: "2023-01-19"},
	{RefID: "ISIC_0034528", Name: "Robert Wilson", PatientID: "P-0004", Samples: 4, Date: "2023-02-01"},
	{RefID: "ISIC_0034529", Name: "Maria Garcia", PatientID: "P-0005", Samples: 1, Date: "2023-02-03"},
	{RefID: "ISIC_0034530", Name: "John Doe", PatientID: "P-0006", Samples: 2, Date: "2023-02-10"},
	{RefID: "ISIC_0034531", Name: "Emily Davis", PatientID: "P-0007", Samples: 6, Date: "2023-02-14"},
	{RefID: "ISIC_0034532", Name: "Michael Lee", PatientID: "P-0008", Samples: 3, Date: "2023-02-21"},
	{RefID: "ISIC_0034533", Name: "Sarah Miller", PatientID: "P-0009", Samples: 2, Date: "2023-03-02"},
	{RefID: "ISIC_0034534", Name: "David Martinez", PatientID: "P-0010", Samples: 5, Date: "2023-03-05"},
	{RefID: "ISIC_0034535", Name: "Laura Taylor", PatientID: "P-0011", Samples: 1, Date: "2023-03-09"},
	{RefID: "ISIC_0034536", Name: "James Anderson", PatientID: "P-0012", Samples: 4, Date: "2023-03-15"},
	{RefID: "ISIC_0034537", Name: "Linda Thomas", PatientID: "P-0013", Samples: 2, Date: "2023-03-22"},
	{RefID: "ISIC_0034538", Name: "Kevin Moore", PatientID: "P-0014", Samples: 3, Date: "2023-04-01"},
	{RefID: "ISIC_0034539", Name: "Susan Jackson", PatientID: "P-0015", Samples: 2, Date: "2023-04-06"},
	{RefID: "ISIC_0034540", Name: "Brian White", PatientID: "P-0016", Samples: 1, Date: "2023-04-11"},
	{RefID: "ISIC_0034541", Name: "Karen Harris", PatientID: "P-0017", Samples: 5, Date: "2023-04-18"},
	{RefID: "ISIC_0034542", Name: "Paul Clark", PatientID: "P-0018", Samples: 2, Date: "2023-04-25"},
	{RefID: "ISIC_0034543", Name: "Nancy Lewis", PatientID: "P-0019", Samples: 3, Date: "2023-05-02"},
}

func (fixtureDirectoryGateway) ListPatients(context.Context, string) ([]model.PatientRecord, error) {
	out := make([]model.PatientRecord, len(fixturePatients))
	copy(out, fixturePatients)
	return out, nil
}

func (fixtureDirectoryGateway) GetPatientDetail(_ context.Context, refID, patientID string) (*model.PatientDetail, error) {
	var row *model.PatientRecord
	for i := range fixturePatients {
		if fixturePatients[i].RefID == refID && fixturePatients[i].PatientID == patientID {
			row = &fixturePatients[i]
			break
		}
	}
	if row == nil {
		return nil, &ServiceError{Service: "directory", Status: 404}
	}

	detail := &model.PatientDetail{
		PatientID:   row.PatientID,
		Name:        row.Name,
		Sex:         "M",
		DateOfBirth: "1961-07-30",
		Notes: JoinComments([]string{
			"Lesion on upper back, first observed six months ago.",
			"Patient reports no itching or bleeding.",
		}),
	}
	for i := 0; i < 5; i++ {
		detail.Images = append(detail.Images, []byte(fmt.Sprintf("fixture-dermoscopy-%s-%d", refID, i)))
	}
	return detail, nil
}

type fixtureClassifierGateway struct{}

var _ IClassifierGateway = fixtureClassifierGateway{}

// NewFixtureClassifierGateway returns a deterministic ranked result.
func NewFixtureClassifierGateway() IClassifierGateway {
	return fixtureClassifierGateway{}
}

func (fixtureClassifierGateway) Classify(context.Context, []byte) ([]model.LabelScore, error) {
	return []model.LabelScore{
		{Label: "melanocytic nevus", Score: 0.72},
		{Label: "melanoma", Score: 0.19},
		{Label: "benign keratosis", Score: 0.06},
	}, nil
}
