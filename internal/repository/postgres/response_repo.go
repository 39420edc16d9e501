package postgres

import (
	"context"
	"time"

	"go-interview-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type responseRepo struct {
	db *pgxpool.Pool
}

func NewResponseRepository(db *pgxpool.Pool) domain.ResponseRepository {
	return &responseRepo{db: db}
}

func (r *responseRepo) Upsert(ctx context.Context, resp *domain.Response) error {
	return runInTx(ctx, r.db, func(ctx context.Context) error {
		query := `INSERT INTO responses (interview_id, question_id, text_response, selected_option, video_url, video_transcript, created_at)
                  VALUES ($1, $2, $3, $4, $5, $6, $7)
                  ON CONFLICT (interview_id, question_id) DO UPDATE SET
                      text_response = EXCLUDED.text_response,
                      selected_option = EXCLUDED.selected_option,
                      video_url = EXCLUDED.video_url,
                      video_transcript = EXCLUDED.video_transcript,
                      created_at = EXCLUDED.created_at
                  RETURNING id`
		err := conn(ctx, r.db).QueryRow(ctx, query,
			resp.InterviewID, resp.QuestionID, resp.TextResponse, resp.SelectedOption, resp.VideoURL, resp.VideoTranscript, resp.CreatedAt,
		).Scan(&resp.ID)
		if err != nil {
			return mapError(err)
		}

		// the old answer's analysis no longer describes this response
		_, err = conn(ctx, r.db).Exec(ctx, `DELETE FROM response_analyses WHERE response_id = $1`, resp.ID)
		resp.Analysis = nil
		return mapError(err)
	})
}

func (r *responseRepo) ListByInterview(ctx context.Context, interviewID int64) ([]domain.Response, error) {
	query := `SELECT r.id, r.interview_id, r.question_id, r.text_response, r.selected_option, r.video_url, r.video_transcript, r.created_at,
                     ra.id, ra.score, COALESCE(ra.strengths, '{}'), COALESCE(ra.weaknesses, '{}'), ra.notes,
                     COALESCE(ra.keywords, '{}'), ra.sentiment, ra.created_at
              FROM responses r
              LEFT JOIN response_analyses ra ON ra.response_id = r.id
              WHERE r.interview_id = $1
              ORDER BY r.id`
	rows, err := conn(ctx, r.db).Query(ctx, query, interviewID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []domain.Response
	for rows.Next() {
		var (
			resp       domain.Response
			analysisID *int64
			score      *float64
			strengths  []string
			weaknesses []string
			notes      *string
			keywords   []string
			sentiment  *string
			scoredAt   *time.Time
		)
		if err := rows.Scan(
			&resp.ID, &resp.InterviewID, &resp.QuestionID, &resp.TextResponse, &resp.SelectedOption, &resp.VideoURL, &resp.VideoTranscript, &resp.CreatedAt,
			&analysisID, &score, pq.Array(&strengths), pq.Array(&weaknesses), &notes, pq.Array(&keywords), &sentiment, &scoredAt,
		); err != nil {
			return nil, err
		}
		if analysisID != nil {
			resp.Analysis = &domain.ResponseAnalysis{
				ID:         *analysisID,
				ResponseID: resp.ID,
				Score:      *score,
				Strengths:  strengths,
				Weaknesses: weaknesses,
				Keywords:   keywords,
			}
			if notes != nil {
				resp.Analysis.Notes = *notes
			}
			if sentiment != nil {
				resp.Analysis.Sentiment = *sentiment
			}
			if scoredAt != nil {
				resp.Analysis.CreatedAt = *scoredAt
			}
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

func (r *responseRepo) AnsweredQuestionIDs(ctx context.Context, interviewID int64) ([]int64, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT question_id FROM responses WHERE interview_id = $1`, interviewID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
