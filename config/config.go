package config

import (
	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr  string `default:"" env:"APP_HOST"`
		Port        int    `default:"8080"  env:"APP_PORT"`
		BodyLimitMb int    `default:"50" env:"APP_BODY_LIMIT_MB"`
		SwaggerFile string `default:"./docs/swagger.json" env:"APP_SWAGGER_FILE"`
		LogLevel    string `default:"info" env:"APP_LOG_LEVEL"`
		ErrNotify   string `default:"" env:"APP_ERR_NOTIFY_URL"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"interview-coach" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret      string `default:"" env:"JWT_SECRET"`
		JWTExpireInSec int64  `default:"72000" env:"JWT_EXPIRE_IN_SEC"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"interview-audio" env:"S3_BUCKET_NAME"`
	}
	LLM struct {
		// yandexgpt, openai, bedrock
		Provider       string `default:"openai" env:"LLM_PROVIDER"`
		TimeoutSec     int    `default:"60" env:"LLM_TIMEOUT_SEC"`
		QuestionsModel string `default:"gpt-3.5-turbo" env:"LLM_QUESTIONS_MODEL"`
		FeedbackModel  string `default:"gpt-4" env:"LLM_FEEDBACK_MODEL"`
	}
	OpenAI struct {
		APIKey      string `default:"" env:"OPENAI_API_KEY"`
		BaseURL     string `default:"" env:"OPENAI_BASE_URL"`
		VisionModel string `default:"gpt-4o-mini" env:"OPENAI_VISION_MODEL"`
	}
	YandexGPT struct {
		IAMToken  string `default:"" env:"YANDEX_GPT_IAM_TOKEN"`
		CatalogID string `default:"" env:"YANDEX_GPT_CATALOG_ID"`
	}
	Bedrock struct {
		Region string `default:"us-east-1" env:"BEDROCK_REGION"`
		Model  string `default:"anthropic.claude-3-5-sonnet-20241022-v2:0" env:"BEDROCK_MODEL"`
	}
	Clova struct {
		URL       string `default:"https://naveropenapi.apigw.ntruss.com/recog/v1/stt" env:"CLOVA_STT_URL"`
		APIKeyID  string `default:"" env:"NAVER_CLOVA_API_KEY"`
		APISecret string `default:"" env:"NAVER_CLOVA_API_SECRET"`
		Lang      string `default:"Kor" env:"CLOVA_STT_LANG"`
	}
	Classifier struct {
		AudioURL string `default:"http://127.0.0.1:8501" env:"CLASSIFIER_AUDIO_URL"`
		// http, openai
		VideoBackend string `default:"http" env:"CLASSIFIER_VIDEO_BACKEND"`
		VideoURL     string `default:"http://127.0.0.1:8502" env:"CLASSIFIER_VIDEO_URL"`
		TimeoutSec   int    `default:"30" env:"CLASSIFIER_TIMEOUT_SEC"`
	}
	Interview struct {
		Categories    []string `default:"[\"Management\",\"Sales Marketing\",\"ICT\",\"Design\"]" env:"INTERVIEW_CATEGORIES"`
		MaxQuestions  int      `default:"20" env:"INTERVIEW_MAX_QUESTIONS"`
		ReportWaitSec int      `default:"0" env:"INTERVIEW_REPORT_WAIT_SEC"`
	}
	VideoStream struct {
		ThrottleIntervalSec int `default:"3" env:"VIDEO_THROTTLE_INTERVAL_SEC"`
		// wall, session
		ThrottleClock   string `default:"wall" env:"VIDEO_THROTTLE_CLOCK"`
		MaxFrameBytes   int    `default:"4194304" env:"VIDEO_MAX_FRAME_BYTES"`
		FrameTimeoutSec int    `default:"20" env:"VIDEO_FRAME_TIMEOUT_SEC"`
		PingIntervalSec int    `default:"30" env:"VIDEO_PING_INTERVAL_SEC"`
	}
	Export struct {
		FontDir string `default:"static/font/" env:"EXPORT_FONT_DIR"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Debug("файл .env не найден, используются переменные окружения")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
