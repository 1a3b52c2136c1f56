package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE narratives (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE segments (
				id VARCHAR(255) NOT NULL,
				narrative_id VARCHAR(255) NOT NULL REFERENCES narratives(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL DEFAULT '',
				summary TEXT NOT NULL DEFAULT '',
				story_content TEXT NOT NULL DEFAULT '',
				display_order INT NOT NULL DEFAULT 0,
				auto_fit_bounds BOOLEAN NOT NULL DEFAULT false,
				playback_mode VARCHAR(20) NOT NULL DEFAULT '',
				camera JSONB NOT NULL DEFAULT '{}',
				pois JSONB NOT NULL DEFAULT '[]',
				zones JSONB NOT NULL DEFAULT '[]',
				layers JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE,
				PRIMARY KEY (narrative_id, id)
			);

			CREATE INDEX idx_segments_display_order ON segments(narrative_id, display_order);
		`,
		2: `
			CREATE TABLE timeline_transitions (
				id VARCHAR(255) NOT NULL,
				narrative_id VARCHAR(255) NOT NULL REFERENCES narratives(id) ON DELETE CASCADE,
				from_segment_id VARCHAR(255) NOT NULL,
				to_segment_id VARCHAR(255) NOT NULL,
				name VARCHAR(255) NOT NULL DEFAULT '',
				duration_ms INT NOT NULL DEFAULT 0 CHECK (duration_ms >= 0),
				transition_type VARCHAR(50) NOT NULL DEFAULT '',
				animate_camera BOOLEAN NOT NULL DEFAULT false,
				camera_animation_type VARCHAR(50) NOT NULL DEFAULT '',
				camera_animation_duration_ms INT NOT NULL DEFAULT 0 CHECK (camera_animation_duration_ms >= 0),
				show_overlay BOOLEAN NOT NULL DEFAULT false,
				overlay_content TEXT NOT NULL DEFAULT '',
				auto_trigger BOOLEAN NOT NULL DEFAULT true,
				require_user_action BOOLEAN NOT NULL DEFAULT false,
				trigger_button_text VARCHAR(255) NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE,
				PRIMARY KEY (narrative_id, id)
			);

			CREATE INDEX idx_timeline_transitions_from ON timeline_transitions(narrative_id, from_segment_id);
			CREATE INDEX idx_timeline_transitions_to ON timeline_transitions(narrative_id, to_segment_id);
		`,
	}
}
