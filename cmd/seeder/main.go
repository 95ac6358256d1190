// Command seeder fills a running travel-service with creators, explorers and
// their content through the public REST API.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/goccy/go-json"

	"travel-service/internal/shared/logging"
)

type account struct {
	ID    string
	Token string
	Name  string
}

type client struct {
	base string
	http *http.Client
}

func (c *client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

func (c *client) register(ctx context.Context, accountType string) (account, error) {
	first, last := gofakeit.FirstName(), gofakeit.LastName()
	username := strings.ToLower(fmt.Sprintf("%s_%s", first, last))
	if len(username) > 24 {
		username = username[:24]
	}
	username += fmt.Sprint(gofakeit.Number(10, 99999))
	var res struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName":    first + " " + last,
		"email":       username + "@example.com",
		"username":    username,
		"password":    "Traveler123!",
		"accountType": accountType,
	}, &res)
	if err != nil {
		return account{}, err
	}
	acc := account{ID: res.User.ID, Token: res.Token, Name: username}

	image := fmt.Sprintf("https://picsum.photos/id/%d/200", gofakeit.Number(1, 500))
	return acc, c.do(ctx, http.MethodPut, "/api/profiles/update", acc.Token, map[string]any{
		"profileImage": image,
		"bio":          gofakeit.Sentence(12),
		"location":     gofakeit.City() + ", " + gofakeit.Country(),
		"interests":    []string{gofakeit.Hobby(), gofakeit.Hobby()},
	}, nil)
}

func location() map[string]any {
	return map[string]any{
		"name": gofakeit.City() + ", " + gofakeit.Country(),
		"coordinates": map[string]float64{
			"latitude":  gofakeit.Latitude(),
			"longitude": gofakeit.Longitude(),
		},
	}
}

func (c *client) createPost(ctx context.Context, a account) (string, error) {
	var res struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/posts", a.Token, map[string]any{
		"image":       fmt.Sprintf("https://picsum.photos/id/%d/1080/1350", gofakeit.Number(1, 1000)),
		"location":    location(),
		"weather":     map[string]any{"temp": gofakeit.Number(-5, 35), "description": "Clear sky", "icon": "01d"},
		"description": gofakeit.Sentence(20),
		"travelTips":  []string{gofakeit.Sentence(8), gofakeit.Sentence(8)},
	}, &res)
	return res.ID, err
}

var categories = []string{"Food", "Culture", "Nature", "Adventure", "Budget", "Other"}

func (c *client) createGuide(ctx context.Context, a account) (string, error) {
	var res struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/guides", a.Token, map[string]any{
		"text":         gofakeit.Sentence(30),
		"location":     gofakeit.City(),
		"locationNote": gofakeit.Sentence(5),
		"category":     categories[gofakeit.Number(0, len(categories)-1)],
		"tags":         []string{gofakeit.Word(), gofakeit.Word()},
	}, &res)
	return res.ID, err
}

func (c *client) createVideo(ctx context.Context, a account) (string, error) {
	var res struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, http.MethodPost, "/api/videos", a.Token, map[string]any{
		"title":       gofakeit.Sentence(5),
		"description": gofakeit.Sentence(25),
		"video":       "https://samplelib.com/lib/preview/mp4/sample-5s.mp4",
		"thumbnail":   fmt.Sprintf("https://picsum.photos/id/%d/640/360", gofakeit.Number(1, 1000)),
		"duration":    gofakeit.Float64Range(5, 180),
		"location":    location(),
	}, &res)
	return res.ID, err
}

func main() {
	base := flag.String("url", envOr("SEED_API_URL", "http://localhost:8080"), "travel-service base URL")
	creators := flag.Int("creators", 5, "creator accounts")
	explorers := flag.Int("explorers", 10, "explorer accounts")
	perCreator := flag.Int("items", 3, "posts, guides and videos per creator")
	flag.Parse()

	logging.Init(logging.Config{Level: "info", Format: "console"})
	gofakeit.Seed(time.Now().UnixNano())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	c := &client{base: strings.TrimSuffix(*base, "/"), http: &http.Client{Timeout: 30 * time.Second}}

	var posts, guides, videos []string
	for i := 0; i < *creators; i++ {
		a, err := c.register(ctx, "creator")
		if err != nil {
			logging.Fatal().Err(err).Msg("register creator")
		}
		for j := 0; j < *perCreator; j++ {
			if id, err := c.createPost(ctx, a); err != nil {
				logging.Warn().Err(err).Str("user", a.Name).Msg("create post")
			} else {
				posts = append(posts, id)
			}
			if id, err := c.createGuide(ctx, a); err != nil {
				logging.Warn().Err(err).Str("user", a.Name).Msg("create guide")
			} else {
				guides = append(guides, id)
			}
			if id, err := c.createVideo(ctx, a); err != nil {
				logging.Warn().Err(err).Str("user", a.Name).Msg("create video")
			} else {
				videos = append(videos, id)
			}
		}
		logging.Info().Str("user", a.Name).Msg("creator seeded")
	}

	var interactions int
	for i := 0; i < *explorers; i++ {
		a, err := c.register(ctx, "explorer")
		if err != nil {
			logging.Fatal().Err(err).Msg("register explorer")
		}
		for _, id := range posts {
			if gofakeit.Bool() {
				interactions += c.try(ctx, http.MethodPost, "/api/posts/"+id+"/like", a.Token, nil)
			}
			if gofakeit.Number(0, 3) == 0 {
				interactions += c.try(ctx, http.MethodPost, "/api/posts/"+id+"/comment", a.Token,
					map[string]string{"text": gofakeit.Sentence(8)})
			}
			if gofakeit.Number(0, 4) == 0 {
				interactions += c.try(ctx, http.MethodPost, "/api/posts/"+id+"/save", a.Token, nil)
			}
		}
		for _, id := range guides {
			switch gofakeit.Number(0, 2) {
			case 0:
				interactions += c.try(ctx, http.MethodPost, "/api/guides/"+id+"/like", a.Token, nil)
			case 1:
				interactions += c.try(ctx, http.MethodPost, "/api/guides/"+id+"/dislike", a.Token, nil)
			}
		}
		for _, id := range videos {
			interactions += c.try(ctx, http.MethodPost, "/api/videos/"+id+"/view", a.Token, nil)
			if gofakeit.Bool() {
				interactions += c.try(ctx, http.MethodPost, "/api/videos/"+id+"/like", a.Token, nil)
			}
		}
	}

	logging.Info().
		Int("posts", len(posts)).
		Int("guides", len(guides)).
		Int("videos", len(videos)).
		Int("interactions", interactions).
		Msg("seeding complete")
}

// try performs an interaction and reports 1 on success. Failures are logged.
func (c *client) try(ctx context.Context, method, path, token string, body any) int {
	if err := c.do(ctx, method, path, token, body, nil); err != nil {
		logging.Warn().Err(err).Msg("interaction")
		return 0
	}
	return 1
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
