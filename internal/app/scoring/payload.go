package scoring

import (
	"fmt"
	"francoggm/antiscam-scoring/internal/models"
	"math"
	"mime"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

type scoringRequest struct {
	Data []transactionFeatures `json:"data"`
}

// Field order is part of the wire contract.
type transactionFeatures struct {
	TransactionAmount   float64 `json:"TransactionAmount"`
	TransactionDuration float64 `json:"TransactionDuration"`
	LoginAttempts       int     `json:"LoginAttempts"`
	AccountBalance      float64 `json:"AccountBalance"`
	CustomerAge         int     `json:"CustomerAge"`
}

func newScoringRequest(records []models.TransactionRecord) scoringRequest {
	data := make([]transactionFeatures, 0, len(records))
	for _, record := range records {
		data = append(data, transactionFeatures{
			TransactionAmount:   record.Amount.InexactFloat64(),
			TransactionDuration: record.Duration.InexactFloat64(),
			LoginAttempts:       record.LoginAttempts,
			AccountBalance:      record.Balance.InexactFloat64(),
			CustomerAge:         record.Age,
		})
	}

	return scoringRequest{Data: data}
}

type fieldNames struct {
	fraud string
	score string
}

var (
	standardFields  = fieldNames{fraud: "fraud", score: "confidence_score"}
	alternateFields = fieldNames{fraud: "fraud_prediction", score: "fraud_score"}
)

func (k ResponseKeys) candidates() []fieldNames {
	switch k {
	case KeysStandard:
		return []fieldNames{standardFields}
	case KeysAlternate:
		return []fieldNames{alternateFields}
	default:
		return []fieldNames{standardFields, alternateFields}
	}
}

func isJSONMediaType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// decodePredictions parses a response body. want is the number of submitted records;
// exact requires the array length to equal want, otherwise any non-empty array is
// accepted and its first want items are used.
func decodePredictions(body []byte, want int, exact bool, keys ResponseKeys) Outcome {
	var payload any
	if err := sonic.ConfigStd.Unmarshal(body, &payload); err != nil {
		return failed(TransportError, fmt.Errorf("%w: %v", ErrDecode, err))
	}

	items, ok := payload.([]any)
	if !ok {
		return failed(CountMismatch, fmt.Errorf("expected a JSON array, got %T", payload))
	}

	if (exact && len(items) != want) || len(items) < want {
		return failed(CountMismatch, fmt.Errorf("expected %d predictions, got %d", want, len(items)))
	}

	predictions := make([]models.PredictionResult, 0, want)
	for i, item := range items[:want] {
		prediction, err := decodePrediction(item, keys)
		if err != nil {
			return failed(TransportError, fmt.Errorf("%w: item %d: %v", ErrDecode, i, err))
		}
		predictions = append(predictions, prediction)
	}

	return Outcome{Kind: Success, Predictions: predictions}
}

func decodePrediction(item any, keys ResponseKeys) (models.PredictionResult, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return models.PredictionResult{}, fmt.Errorf("prediction is %T, not an object", item)
	}

	var rawFraud, rawScore any
	var hasFraud, hasScore bool
	for _, names := range keys.candidates() {
		if !hasFraud {
			rawFraud, hasFraud = obj[names.fraud]
		}
		if !hasScore {
			rawScore, hasScore = obj[names.score]
		}
	}

	fraud := int64(0)
	if hasFraud {
		v, err := toInt(rawFraud)
		if err != nil {
			return models.PredictionResult{}, fmt.Errorf("fraud flag: %w", err)
		}
		fraud = v
	}

	score := 0.0
	if hasScore {
		v, err := toFloat(rawScore)
		if err != nil {
			return models.PredictionResult{}, fmt.Errorf("confidence score: %w", err)
		}
		score = math.Min(1, math.Max(0, v))
	}

	return models.PredictionResult{
		Fraud:      fraud != 0,
		Score:      score,
		Provenance: models.ProvenanceRemote,
	}, nil
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, fmt.Errorf("non-finite value %v", x)
		}
		return int64(x), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func toFloat(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case bool:
		if x {
			f = 1
		}
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %v", f)
	}
	return f, nil
}
