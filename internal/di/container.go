package di

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"docqa-orchestrator/internal/adapter/inference"
	"docqa-orchestrator/internal/adapter/repository"
	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/infra/config"
	"docqa-orchestrator/internal/infra/httpclient"
	"docqa-orchestrator/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	// Ports
	Index domain.DocumentIndex
	LLM   domain.LLMClient
	Judge domain.EntailmentJudge

	// Usecases
	RetrieveUsecase usecase.ContextRetriever
	AnswerUsecase   usecase.AnswerQuestionUsecase

	// Shared state
	SessionCache *usecase.SessionCache
}

// NewApplicationComponents wires all dependencies from config and database pool.
func NewApplicationComponents(cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) (*ApplicationComponents, error) {
	pipelineCfg := usecase.DefaultPipelineConfig()
	pipelineCfg.AnswerMaxTokens = cfg.AnswerMaxTokens
	if err := pipelineCfg.Validate(); err != nil {
		return nil, err
	}

	// Shared HTTP client with connection pooling for the NLI sidecar
	nliHTTP := httpclient.NewPooledClient(cfg.NLITimeout)

	// External clients
	embedder := inference.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbeddingModel, 30)
	generator := inference.NewOllamaGenerator(cfg.OllamaURL, cfg.GenerationModel)
	nliClient := inference.NewNLIClient(cfg.NLIURL, cfg.NLIModel, cfg.NLITimeout, log, nliHTTP)

	// Document index over pgvector
	index := repository.NewPageIndexRepository(pool, embedder, cfg.SearchRateLimit, cfg.SearchTopK, log)

	// Pipeline components
	analyzer := usecase.NewQuestionAnalyzer(pipelineCfg.Analyzer)
	decomposer := usecase.NewQuestionDecomposer(analyzer, pipelineCfg.MaxSubQuestions)
	retriever := usecase.NewContextRetriever(index, pipelineCfg.Retriever, log)
	evidenceBuilder := usecase.NewEvidenceChainBuilder(pipelineCfg.Evidence)
	adjudicator := usecase.NewAdjudicator(nliClient, index, pipelineCfg.Adjudicator, log)
	verifier := usecase.NewAnswerVerifier(index, pipelineCfg.Verifier, log)
	promptBuilder := usecase.NewGroundedPromptBuilder()
	sessionCache := usecase.NewSessionCache(cfg.SessionCacheSize, cfg.SessionCacheTTL)

	answerUsecase := usecase.NewAnswerQuestionUsecase(
		analyzer, decomposer, retriever, evidenceBuilder, adjudicator,
		verifier, promptBuilder, generator, sessionCache, pipelineCfg, log,
	)

	return &ApplicationComponents{
		Index:           index,
		LLM:             generator,
		Judge:           nliClient,
		RetrieveUsecase: retriever,
		AnswerUsecase:   answerUsecase,
		SessionCache:    sessionCache,
	}, nil
}
