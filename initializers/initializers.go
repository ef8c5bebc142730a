package initializers

import (
	"context"
	"time"

	"interview-coach-backend/config"
	"interview-coach-backend/db"
	"interview-coach-backend/fiberlog"
	authhandler "interview-coach-backend/lib/auth"
	"interview-coach-backend/lib/classifier"
	pdfexport "interview-coach-backend/lib/export/pdf"
	xlsexport "interview-coach-backend/lib/export/xls"
	"interview-coach-backend/lib/feedback"
	gpthandler "interview-coach-backend/lib/gpt"
	openaiclient "interview-coach-backend/lib/gpt/openai-client"
	interviewhandler "interview-coach-backend/lib/interview"
	audioanalyzestore "interview-coach-backend/lib/interview/audio-store"
	interviewstore "interview-coach-backend/lib/interview/store"
	videoanalyzestore "interview-coach-backend/lib/interview/video-store"
	clovaclient "interview-coach-backend/lib/stt/clova-client"
	usersstore "interview-coach-backend/lib/users/store"
	"interview-coach-backend/lib/utils/audio"
	initchecker "interview-coach-backend/lib/utils/init-checker"
	videostream "interview-coach-backend/lib/video-stream"
	connectionhub "interview-coach-backend/lib/ws/hub/connection-hub"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// Services собранные сервисы приложения; передаются в роутеры явно
type Services struct {
	LoggerConfig *fiberlog.Config
	Auth         authhandler.Provider
	Interview    interviewhandler.Provider
	VideoStream  videostream.Provider
	Hub          connectionhub.Provider
	FrameTimeout time.Duration
	PingInterval time.Duration
}

func InitAllServices(ctx context.Context) *Services {
	config.InitConfig()
	loggerConfig := InitLogger(config.Conf.App.LogLevel)
	if config.Conf.Auth.JWTSecret == "" {
		panic("не задан JWT_SECRET")
	}
	InitDBConnection()
	storage := InitS3(ctx)

	var openAIClient *openai.Client
	if config.Conf.OpenAI.APIKey != "" {
		openAIClient = openaiclient.NewAPIClient(config.Conf.OpenAI.APIKey, config.Conf.OpenAI.BaseURL)
	}
	llmTimeout := time.Duration(config.Conf.LLM.TimeoutSec) * time.Second
	questionsLLM := mustLLM(ctx, openAIClient, config.Conf.LLM.QuestionsModel)
	feedbackLLM := mustLLM(ctx, openAIClient, config.Conf.LLM.FeedbackModel)

	classifierTimeout := time.Duration(config.Conf.Classifier.TimeoutSec) * time.Second
	audioClassifier := classifier.NewHTTPAudio(config.Conf.Classifier.AudioURL, classifierTimeout)
	videoClassifier := initVideoClassifier(openAIClient, classifierTimeout)

	interviewStore := interviewstore.NewInstance(db.DB)
	audioStore := audioanalyzestore.NewInstance(db.DB)
	videoStore := videoanalyzestore.NewInstance(db.DB)

	deps := interviewhandler.Deps{
		Questions: gpthandler.NewHandler(questionsLLM, llmTimeout),
		Transcriber: clovaclient.NewClient(config.Conf.Clova.URL, config.Conf.Clova.APIKeyID,
			config.Conf.Clova.APISecret, config.Conf.Clova.Lang, classifierTimeout),
		AudioClassifier: audioClassifier,
		Synthesizer:     feedback.NewSynthesizer(feedbackLLM, llmTimeout),
		Storage:         storage,
		InterviewStore:  interviewStore,
		AudioStore:      audioStore,
		VideoStore:      videoStore,
		PDF:             pdfexport.NewHandler(config.Conf.Export.FontDir),
		XLS:             xlsexport.NewHandler(),
	}
	initchecker.MustCheck(
		"Questions", deps.Questions,
		"Transcriber", deps.Transcriber,
		"AudioClassifier", deps.AudioClassifier,
		"Synthesizer", deps.Synthesizer,
		"VideoClassifier", videoClassifier,
		"DB", db.DB,
	)

	services := &Services{
		LoggerConfig: loggerConfig,
		Auth: authhandler.NewHandler(authhandler.Config{
			JWTSecret: config.Conf.Auth.JWTSecret,
			TokenTTL:  time.Duration(config.Conf.Auth.JWTExpireInSec) * time.Second,
		}, usersstore.NewInstance(db.DB)),
		Interview: interviewhandler.NewHandler(interviewhandler.Config{
			Categories:   config.Conf.Interview.Categories,
			MaxQuestions: config.Conf.Interview.MaxQuestions,
			SampleRate:   audio.DefaultSampleRate,
			ReportWait:   time.Duration(config.Conf.Interview.ReportWaitSec) * time.Second,
		}, deps),
		VideoStream: videostream.NewProcessor(videostream.Config{
			ThrottleInterval: time.Duration(config.Conf.VideoStream.ThrottleIntervalSec) * time.Second,
			Clock:            config.Conf.VideoStream.ThrottleClock,
			MaxFrameBytes:    config.Conf.VideoStream.MaxFrameBytes,
		}, videoClassifier, interviewStore, videoStore),
		Hub:          connectionhub.NewHub(),
		FrameTimeout: time.Duration(config.Conf.VideoStream.FrameTimeoutSec) * time.Second,
		PingInterval: time.Duration(config.Conf.VideoStream.PingIntervalSec) * time.Second,
	}
	log.
		WithField("llm_provider", config.Conf.LLM.Provider).
		WithField("video_backend", config.Conf.Classifier.VideoBackend).
		WithField("throttle_clock", config.Conf.VideoStream.ThrottleClock).
		Info("сервисы инициализированы")
	return services
}

func mustLLM(ctx context.Context, openAIClient *openai.Client, model string) gpthandler.LLM {
	llm, err := gpthandler.NewLLM(ctx, gpthandler.FactoryConfig{
		Provider:        config.Conf.LLM.Provider,
		Model:           model,
		OpenAIClient:    openAIClient,
		YandexIAMToken:  config.Conf.YandexGPT.IAMToken,
		YandexCatalogID: config.Conf.YandexGPT.CatalogID,
		BedrockRegion:   config.Conf.Bedrock.Region,
		BedrockModel:    config.Conf.Bedrock.Model,
	})
	if err != nil {
		panic(err.Error())
	}
	return llm
}

func initVideoClassifier(openAIClient *openai.Client, timeout time.Duration) classifier.VideoClassifier {
	switch config.Conf.Classifier.VideoBackend {
	case "openai":
		if openAIClient == nil {
			panic("для классификации кадров через OpenAI нужен OPENAI_API_KEY")
		}
		return classifier.NewOpenAIVideo(openAIClient, config.Conf.OpenAI.VisionModel)
	case "http", "":
		return classifier.NewHTTPVideo(config.Conf.Classifier.VideoURL, timeout)
	}
	panic("неизвестный CLASSIFIER_VIDEO_BACKEND: " + config.Conf.Classifier.VideoBackend)
}
