package store

import (
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"

	"github.com/jsphweid/pitchscribe/model"
)

type Recorder interface {
	Record(t model.Transcription) error
	Get(id string) (*model.Transcription, error)
}

// Nop is used when no table is configured.
type Nop struct{}

func (Nop) Record(model.Transcription) error { return nil }

func (Nop) Get(string) (*model.Transcription, error) { return nil, nil }

// Dynamo logs transcriptions to a DynamoDB table keyed by PK = transcription id.
type Dynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamo(client dynamodbiface.DynamoDBAPI, table string) *Dynamo {
	return &Dynamo{client: client, table: table}
}

// Open connects to the table at endpoint, e.g. a local DynamoDB at http://localhost:8000.
// An empty endpoint disables the store.
func Open(endpoint, region, table string) (Recorder, error) {
	if endpoint == "" {
		return Nop{}, nil
	}
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return NewDynamo(dynamodb.New(sess), table), nil
}

func (d *Dynamo) Record(t model.Transcription) error {
	item := map[string]*dynamodb.AttributeValue{
		"PK":           {S: aws.String(t.Id)},
		"Source":       {S: aws.String(t.Source)},
		"NumNotes":     {N: aws.String(strconv.Itoa(t.NumNotes))},
		"NumFrames":    {N: aws.String(strconv.Itoa(t.NumFrames))},
		"DurationSecs": {N: aws.String(strconv.FormatFloat(t.DurationSecs, 'f', -1, 64))},
		"MidiBytes":    {N: aws.String(strconv.Itoa(t.MidiBytes))},
		"CreatedAt":    {N: aws.String(strconv.FormatInt(t.CreatedAt, 10))},
	}
	_, err := d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		return errors.Wrap(err, "error from DynamoDB")
	}
	return nil
}

// Get returns nil if there is no transcription with that id.
func (d *Dynamo) Get(id string) (*model.Transcription, error) {
	out, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB")
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	v := out.Item
	var t model.Transcription
	t.Id = aws.StringValue(v["PK"].S)
	if s, ok := v["Source"]; ok {
		t.Source = aws.StringValue(s.S)
	}
	t.NumNotes = atoi(v["NumNotes"])
	t.NumFrames = atoi(v["NumFrames"])
	t.MidiBytes = atoi(v["MidiBytes"])
	if n, ok := v["DurationSecs"]; ok && n.N != nil {
		t.DurationSecs, _ = strconv.ParseFloat(*n.N, 64)
	}
	if n, ok := v["CreatedAt"]; ok && n.N != nil {
		t.CreatedAt, _ = strconv.ParseInt(*n.N, 10, 64)
	}
	return &t, nil
}

func atoi(v *dynamodb.AttributeValue) int {
	if v == nil || v.N == nil {
		return 0
	}
	n, _ := strconv.Atoi(*v.N)
	return n
}
