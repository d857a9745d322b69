package catastro

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"inmoscan/internal/normalize"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

/*
Consulta_DNPRC (lookup by cadastral reference):
https://ovc.catastro.meh.es/OVCServWeb/OVCWcfCallejero/COVCCallejero.svc/json/Consulta_DNPRC?RefCat=9872023VH5797S0001WX

	res: {
		"consulta_dnprcResult": {
			"control": {"cudnp": 1, "cucons": 1, "cucul": 0},
			"bico": {
				"bi": {
					"idbi": {"cn": "UR", "rc": {"pc1": "9872023", "pc2": "VH5797S", "car": "0001", "cc1": "W", "cc2": "X"}},
					"dt": {
						"loine": {"cp": "28", "cm": "79"},
						"cmc": "900",
						"np": "MADRID",
						"nm": "MADRID",
						"locs": {"lous": {"lourb": {
							"dir": {"cv": "3044", "tv": "CL", "nv": "ALCALA", "pnp": "1"},
							"loint": {"es": "1", "pt": "02", "pu": "A"},
							"dp": "28014",
							"dm": "7"
						}}}
					},
					"ldt": "CL ALCALA 1 Es:1 Pl:02 Pt:A 28014 MADRID (MADRID)",
					"debi": {"luso": "Residencial", "sfc": "85", "cpt": "0,012300", "ant": "1960"}
				}
			}
		}
	}

	err: {"consulta_dnprcResult": {"control": {"cuerr": 1}, "lerr": [{"cod": "22", "des": "LA REFERENCIA CATASTRAL NO EXISTE"}]}}
*/

const baseURL = "https://ovc.catastro.meh.es/OVCServWeb/OVCWcfCallejero/COVCCallejero.svc/json/Consulta_DNPRC"

// NotAvailable replaces any enrichment field that could not be resolved.
const NotAvailable = "N/A"

// Record is the flat enrichment result for one cadastral reference.
type Record struct {
	Class    string `json:"clase"`
	Year     string `json:"year"`
	Area     string `json:"area"`
	Floor    string `json:"planta"`
	Location string `json:"location"`
	Province string `json:"provincia"`
	City     string `json:"ciudad"`
	District string `json:"barrio"`
}

// Unavailable is the record used when a lookup fails.
func Unavailable() Record {
	return Record{
		Class:    NotAvailable,
		Year:     NotAvailable,
		Area:     NotAvailable,
		Floor:    NotAvailable,
		Location: NotAvailable,
		Province: NotAvailable,
		City:     NotAvailable,
		District: NotAvailable,
	}
}

// Enricher resolves cadastral references. Implementations never fail;
// errors degrade to Unavailable().
type Enricher interface {
	Fetch(ctx context.Context, reference string) Record
}

type Client struct {
	client *http.Client
	log    zerolog.Logger
}

func New(timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		log: log.With().Str("component", "catastro").Logger(),
	}
}

// UseDefaultClient routes requests through http.DefaultClient's transport so
// tests can swap it. The client timeout is kept.
func (c *Client) UseDefaultClient() {
	c.client = &http.Client{
		Timeout:   c.client.Timeout,
		Transport: defaultClientTransport{},
	}
}

// defaultClientTransport resolves http.DefaultClient's transport per request.
type defaultClientTransport struct{}

func (defaultClientTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t := http.DefaultClient.Transport; t != nil {
		return t.RoundTrip(req)
	}
	return http.DefaultTransport.RoundTrip(req)
}

// Fetch looks up reference and maps the response into a Record.
func (c *Client) Fetch(ctx context.Context, reference string) Record {
	log := c.log.With().Str("reference", reference).Logger()
	log.Debug().Msg("requesting cadastral data")

	body, err := c.get(ctx, reference)
	if err != nil {
		log.Warn().Err(err).Str("response", truncate(body)).Msg("failed to fetch cadastral data")
		return Unavailable()
	}

	var res dnprcResponse
	if err := json.Unmarshal(body, &res); err != nil {
		log.Warn().Err(err).Str("response", truncate(body)).Msg("failed to decode cadastral data")
		return Unavailable()
	}

	result := res.Result
	if result != nil && len(result.Errors) > 0 {
		descriptions := make([]string, 0, len(result.Errors))
		for _, e := range result.Errors {
			descriptions = append(descriptions, strings.TrimSpace(string(e.Code)+" "+string(e.Description)))
		}
		log.Warn().Strs("errors", descriptions).Msg("catastro reported errors")
	}

	if result == nil || result.Bico == nil || result.Bico.Bi == nil {
		log.Warn().Str("response", truncate(body)).Msg("unexpected cadastral response shape")
		return Unavailable()
	}

	record := result.Bico.Bi.record()
	log.Debug().Interface("record", record).Msg("cadastral data received")
	return record
}

func (c *Client) get(ctx context.Context, reference string) ([]byte, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	q := u.Query()
	q.Set("RefCat", reference)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build catastro request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "catastro request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read catastro response")
	}

	if resp.StatusCode >= 400 {
		return body, errors.Errorf("catastro http %d", resp.StatusCode)
	}

	return body, nil
}

// record walks bi with "N/A" defaults at every level.
func (bi *bienInmueble) record() Record {
	var (
		debi  = bi.Debi
		dt    = bi.Dt
		lourb *urbanLocation
	)
	if dt != nil && dt.Locs != nil && dt.Locs.Lous != nil {
		lourb = dt.Locs.Lous.Lourb
	}

	r := Unavailable()

	if debi != nil {
		r.Class = debi.Use.orNA()
		if v := normalize.ParseInt(string(debi.Year)); v != nil && *v != 0 {
			r.Year = strconv.Itoa(*v)
		}
		if v := normalize.ParseNumeric(string(debi.Surface)); v != nil && *v != 0 {
			r.Area = strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}

	if dt != nil {
		r.Province = dt.Province.orNA()
		r.City = dt.Municipality.orNA()
	}

	floor, door := flexString(""), flexString("")
	if lourb != nil {
		if lourb.Address != nil {
			r.Location = lourb.Address.StreetName.orNA()
		}
		if lourb.Interior != nil {
			floor, door = lourb.Interior.Floor, lourb.Interior.Door
		}
		r.District = lourb.District.orNA()
	}
	// the floor field is always composite once bi itself resolved
	r.Floor = floor.orNA() + ", " + door.orNA()

	return r
}

func truncate(b []byte) string {
	const limit = 512
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
