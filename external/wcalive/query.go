package wcalive

import (
	sonic "github.com/bytedance/sonic"
	"github.com/phillipc0/cubing-competition-api/internal/domain/live"
	"github.com/valyala/bytebufferpool"
)

const competitorOperation = "Competitor"

const competitorQuery = `query Competitor($id: ID!) {
  person(id: $id) {
    id
    name
    wcaId
    country { iso2 }
    results {
      id
      ranking
      advancing
      advancingQuestionable
      attempts { result }
      best
      average
      singleRecordTag
      averageRecordTag
      round {
        id
        name
        number
        competitionEvent { id event { id name rank } }
        format { id numberOfAttempts sortBy }
      }
    }
  }
}`

type graphQLRequest struct {
	OperationName string            `json:"operationName"`
	Query         string            `json:"query"`
	Variables     map[string]string `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type competitorResponse struct {
	Data struct {
		Person *live.PersonResults `json:"person"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// appendCompetitorRequest writes the Competitor operation for personID into buf.
func appendCompetitorRequest(buf *bytebufferpool.ByteBuffer, personID string) error {
	encoded, err := sonic.Marshal(graphQLRequest{
		OperationName: competitorOperation,
		Query:         competitorQuery,
		Variables:     map[string]string{"id": personID},
	})
	if err != nil {
		return err
	}
	_, err = buf.Write(encoded)
	return err
}
