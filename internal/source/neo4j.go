package source

import (
	"context"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/sifthq/corral/internal/core/model"
)

// Neo4jSource bulk-reads Incident nodes from a Neo4j (or Memgraph) corpus
// over bolt. The node shape matches the original ingest: GTD column names
// as properties.
type Neo4jSource struct {
	Driver neo4j.DriverWithContext
}

func NewNeo4jSource(uri, username, password string) (*Neo4jSource, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Connected to Neo4j")
	return &Neo4jSource{Driver: driver}, nil
}

func (s *Neo4jSource) Close(ctx context.Context) error {
	return s.Driver.Close(ctx)
}

const loadAllQuery = `
	MATCH (i:Incident)
	RETURN i.eventid AS eventid,
		i.gname AS gname,
		i.iyear AS iyear,
		i.imonth AS imonth,
		i.iday AS iday,
		i.city AS city,
		i.region_txt AS region,
		i.country_txt AS country,
		i.attacktype1_txt AS attack_type,
		i.targtype1_txt AS target_type,
		i.weaptype1_txt AS weapon_type,
		i.nkill AS casualties,
		i.nwound AS wounded
	ORDER BY eventid
`

func (s *Neo4jSource) LoadAll(ctx context.Context) ([]model.Incident, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.Driver, loadAllQuery, nil, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to load incidents: %w", err)
	}

	incidents := make([]model.Incident, 0, len(result.Records))
	for _, rec := range result.Records {
		eventID, _ := rec.Get("eventid")
		id := asInt64(eventID)
		if id == 0 {
			continue
		}
		incidents = append(incidents, model.Incident{
			EventID:    id,
			GroupName:  stringProp(rec, "gname"),
			Year:       intProp(rec, "iyear"),
			Month:      intProp(rec, "imonth"),
			Day:        intProp(rec, "iday"),
			City:       stringProp(rec, "city"),
			Region:     stringProp(rec, "region"),
			Country:    stringProp(rec, "country"),
			AttackType: stringProp(rec, "attack_type"),
			TargetType: stringProp(rec, "target_type"),
			WeaponType: stringProp(rec, "weapon_type"),
			Casualties: intProp(rec, "casualties"),
			Wounded:    intProp(rec, "wounded"),
		})
	}
	return incidents, nil
}

func stringProp(rec *neo4j.Record, key string) string {
	v, _ := rec.Get(key)
	s, _ := v.(string)
	return s
}

func intProp(rec *neo4j.Record, key string) int {
	v, _ := rec.Get(key)
	return int(asInt64(v))
}

// asInt64 tolerates the numeric types bolt may deliver; nkill/nwound come
// back as floats in some corpora.
func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
